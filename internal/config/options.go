package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/meigma/inventory"
	"github.com/meigma/inventory/internal/exclude"
)

// Options translates the crawl section into crawler options. The logger is
// left to the caller.
func (c *CrawlConfig) Options() ([]inventory.Option, error) {
	exprs := append([]string(nil), c.Exclude...)
	if c.ExcludeFile != "" {
		more, err := readExcludeFile(c.ExcludeFile)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, more...)
	}
	patterns, err := exclude.Compile(exprs)
	if err != nil {
		return nil, err
	}

	return []inventory.Option{
		inventory.WithOneFilesystem(c.OneFilesystem),
		inventory.WithChown(c.Chown),
		inventory.WithNoBackup(c.NoBackup),
		inventory.WithNoBackupName(c.NoBackupName),
		inventory.WithVerbose(c.Verbose),
		inventory.WithExclude(patterns),
		inventory.WithHashAlgorithm(c.HashAlgorithm),
		inventory.WithHashWorkers(c.HashWorkers),
		inventory.WithSharedLinks(c.SharedLinks),
	}, nil
}

// readExcludeFile returns the non-empty lines of path. Lines starting with
// '#' are comments.
func readExcludeFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open exclude file: %w", err)
	}
	defer f.Close()

	var exprs []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		exprs = append(exprs, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read exclude file %s: %w", path, err)
	}
	return exprs, nil
}
