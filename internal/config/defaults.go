package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/meigma/inventory"
	"github.com/meigma/inventory/internal/format"
	"github.com/meigma/inventory/internal/hasher"
)

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	cfg := &Config{
		Crawl: CrawlConfig{
			NoBackup: true,
			Exclude:  []string{},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// setDefaults registers every key with viper. Keys viper does not know are
// not looked up in the environment by Unmarshal.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("crawl.one_filesystem", d.Crawl.OneFilesystem)
	v.SetDefault("crawl.chown", d.Crawl.Chown)
	v.SetDefault("crawl.nobackup", d.Crawl.NoBackup)
	v.SetDefault("crawl.nobackup_name", d.Crawl.NoBackupName)
	v.SetDefault("crawl.verbose", d.Crawl.Verbose)
	v.SetDefault("crawl.exclude", d.Crawl.Exclude)
	v.SetDefault("crawl.exclude_file", d.Crawl.ExcludeFile)
	v.SetDefault("crawl.hash_algorithm", d.Crawl.HashAlgorithm)
	v.SetDefault("crawl.hash_workers", d.Crawl.HashWorkers)
	v.SetDefault("crawl.shared_links", d.Crawl.SharedLinks)
	v.SetDefault("crawl.timeout", d.Crawl.Timeout)
	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.index", d.Output.Index)
	v.SetDefault("output.tty", d.Output.TTY)
}

// ApplyDefaults fills empty fields and normalizes values.
//
// Boolean settings are left alone: their defaults are registered with
// viper so an explicit false survives.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "INFO"
	}
	cfg.Logging.Level = strings.ToUpper(cfg.Logging.Level)
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}

	if cfg.Crawl.NoBackupName == "" {
		cfg.Crawl.NoBackupName = inventory.DefaultNoBackupName
	}
	if cfg.Crawl.HashAlgorithm == "" {
		cfg.Crawl.HashAlgorithm = hasher.DefaultAlgorithm
	}
	cfg.Crawl.HashAlgorithm = strings.ToLower(cfg.Crawl.HashAlgorithm)

	if cfg.Output.Format == "" {
		cfg.Output.Format = format.Default
	}
}
