// Package config loads the inventory command configuration.
//
// Settings come from, in order of precedence: command-line flags,
// environment variables (INVENTORY_*), a YAML configuration file and
// built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ListSeparator splits list values given as a single string, such as
// INVENTORY_CRAWL_EXCLUDE. Commas are common in regular expressions, so
// items are separated by newlines.
const ListSeparator = "\n"

// Config is the complete inventory configuration.
type Config struct {
	// Logging controls diagnostics written to stderr.
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`

	// Crawl controls what the traversal records.
	Crawl CrawlConfig `mapstructure:"crawl" yaml:"crawl"`

	// Output controls where and how the catalog is written.
	Output OutputConfig `mapstructure:"output" yaml:"output"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	// Level is the minimum log level to output.
	// Valid values: DEBUG, INFO, WARN, ERROR (case-insensitive, normalized to uppercase)
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=DEBUG INFO WARN ERROR"`

	// Format specifies the log output format.
	// Valid values: text, json
	Format string `mapstructure:"format" yaml:"format" validate:"required,oneof=text json"`
}

// CrawlConfig mirrors the crawler options.
type CrawlConfig struct {
	// OneFilesystem keeps each root on the device it starts on.
	OneFilesystem bool `mapstructure:"one_filesystem" yaml:"one_filesystem"`

	// Chown applies ownership override records.
	Chown bool `mapstructure:"chown" yaml:"chown"`

	// NoBackup honors stop files.
	NoBackup bool `mapstructure:"nobackup" yaml:"nobackup"`

	// NoBackupName is the stop file name.
	NoBackupName string `mapstructure:"nobackup_name" yaml:"nobackup_name" validate:"required,excludes=/"`

	// Verbose raises the amount of informational logging.
	Verbose int `mapstructure:"verbose" yaml:"verbose" validate:"gte=0"`

	// Exclude lists regular expressions matched against full paths.
	Exclude []string `mapstructure:"exclude" yaml:"exclude"`

	// ExcludeFile names a file with one exclusion expression per line.
	ExcludeFile string `mapstructure:"exclude_file" yaml:"exclude_file,omitempty"`

	// HashAlgorithm selects the content digest.
	HashAlgorithm string `mapstructure:"hash_algorithm" yaml:"hash_algorithm" validate:"required,oneof=sha256 sha384 sha512 blake3 none"`

	// HashWorkers hashes files concurrently when greater than one.
	HashWorkers int `mapstructure:"hash_workers" yaml:"hash_workers" validate:"gte=0,lte=1024"`

	// SharedLinks detects hardlinks across roots.
	SharedLinks bool `mapstructure:"shared_links" yaml:"shared_links"`

	// Timeout bounds the whole run. Zero disables the limit.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" validate:"gte=0"`
}

// OutputConfig controls how the catalog leaves the process.
type OutputConfig struct {
	// Format is the line layout for the stream written to stdout.
	Format string `mapstructure:"format" yaml:"format" validate:"required"`

	// Index, when set, writes a FlatBuffers snapshot to this file instead
	// of the line stream.
	Index string `mapstructure:"index" yaml:"index,omitempty"`

	// TTY allows writing the line stream to a terminal.
	TTY bool `mapstructure:"tty" yaml:"tty"`
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"log-level":      "logging.level",
	"log-format":     "logging.format",
	"one-filesystem": "crawl.one_filesystem",
	"chown":          "crawl.chown",
	"nobackup-name":  "crawl.nobackup_name",
	"verbose":        "crawl.verbose",
	"exclude":        "crawl.exclude",
	"exclude-file":   "crawl.exclude_file",
	"hash":           "crawl.hash_algorithm",
	"hash-workers":   "crawl.hash_workers",
	"shared-links":   "crawl.shared_links",
	"timeout":        "crawl.timeout",
	"format":         "output.format",
	"index":          "output.index",
	"tty":            "output.tty",
}

// Load loads configuration from flags, environment, file and defaults.
//
// configPath selects the configuration file; an empty string searches the
// default location and tolerates its absence. flags may be nil.
func Load(configPath string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	setupViper(v, configPath)
	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	if err := readConfigFile(v, configPath); err != nil {
		return nil, err
	}

	var cfg Config
	hooks := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(ListSeparator),
	))
	if err := v.Unmarshal(&cfg, hooks); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// setupViper configures environment variables, defaults and the config
// file search.
func setupViper(v *viper.Viper, configPath string) {
	// Example: INVENTORY_CRAWL_HASH_ALGORITHM=blake3
	v.SetEnvPrefix("INVENTORY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(getConfigDir())
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}

// readConfigFile reads the configuration file if it exists.
func readConfigFile(v *viper.Viper, configPath string) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && configPath == "" {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// getConfigDir returns $XDG_CONFIG_HOME/inventory, ~/.config/inventory, or
// the current directory when neither can be determined.
func getConfigDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "inventory")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "inventory")
}

// DefaultConfigPath returns the configuration file used when none is given.
func DefaultConfigPath() string {
	return filepath.Join(getConfigDir(), "config.yaml")
}
