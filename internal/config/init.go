package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const configHeader = `# inventory configuration file
#
# Every key can be overridden with an environment variable named after its
# path, e.g. INVENTORY_CRAWL_HASH_ALGORITHM=blake3, or with the matching
# command-line flag.

`

// ErrConfigExists is returned by InitConfig when the target file exists
// and force is false.
var ErrConfigExists = errors.New("config file already exists")

// InitConfig writes the default configuration to path, or to
// DefaultConfigPath when path is empty, and returns the path written.
func InitConfig(path string, force bool) (string, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%w: %s (use --force to overwrite)", ErrConfigExists, path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(configHeader), data...), 0o644); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return path, nil
}
