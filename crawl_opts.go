package inventory

import (
	"log/slog"

	"github.com/meigma/inventory/internal/hasher"
)

// DefaultNoBackupName is the stop file honored when WithNoBackup is enabled.
const DefaultNoBackupName = ".nobackup"

// Matcher decides whether a path is excluded from the catalog.
type Matcher interface {
	Match(path string) bool
}

// crawlConfig holds the settings shared by Crawl, Walk and Prepend.
type crawlConfig struct {
	oneFilesystem bool
	chown         bool
	noBackup      bool
	noBackupName  string
	verbose       int
	exclude       Matcher
	hashAlgorithm string
	hashWorkers   int
	sharedLinks   bool
	progress      ProgressFunc
	logger        *slog.Logger
}

func defaultConfig() crawlConfig {
	return crawlConfig{
		noBackupName:  DefaultNoBackupName,
		hashAlgorithm: hasher.DefaultAlgorithm,
	}
}

// Option configures a Crawler.
type Option func(*crawlConfig)

// WithOneFilesystem keeps the crawl on the device of each directory it
// enters; subdirectories on another device are not descended into.
func WithOneFilesystem(enabled bool) Option {
	return func(cfg *crawlConfig) {
		cfg.oneFilesystem = enabled
	}
}

// WithChown enables ownership override records. Record files are hidden
// from the catalog and their contents replace recorded ownership.
func WithChown(enabled bool) Option {
	return func(cfg *crawlConfig) {
		cfg.chown = enabled
	}
}

// WithNoBackup enables the stop file protocol: a directory containing the
// stop file contributes only the stop file itself to the catalog.
func WithNoBackup(enabled bool) Option {
	return func(cfg *crawlConfig) {
		cfg.noBackup = enabled
	}
}

// WithNoBackupName overrides the stop file name (default ".nobackup").
func WithNoBackupName(name string) Option {
	return func(cfg *crawlConfig) {
		if name != "" {
			cfg.noBackupName = name
		}
	}
}

// WithVerbose sets the verbosity level. Informational messages about
// skipped objects are only logged when level > 0.
func WithVerbose(level int) Option {
	return func(cfg *crawlConfig) {
		cfg.verbose = level
	}
}

// WithExclude sets the exclusion predicate applied to every member path.
func WithExclude(m Matcher) Option {
	return func(cfg *crawlConfig) {
		cfg.exclude = m
	}
}

// WithHashAlgorithm selects the content digest (sha256, sha384, sha512,
// blake3). "none" records hasher.Unavailable for every regular file.
func WithHashAlgorithm(name string) Option {
	return func(cfg *crawlConfig) {
		cfg.hashAlgorithm = name
	}
}

// WithHashWorkers hashes regular files on n goroutines after the traversal
// of each root instead of inline. Values below 2 keep inline hashing.
func WithHashWorkers(n int) Option {
	return func(cfg *crawlConfig) {
		cfg.hashWorkers = n
	}
}

// WithSharedLinks keeps the hardlink map across roots so a file linked from
// two crawled roots is only recorded with content once. By default each
// root starts with an empty map.
func WithSharedLinks(enabled bool) Option {
	return func(cfg *crawlConfig) {
		cfg.sharedLinks = enabled
	}
}

// WithProgress sets a callback for progress updates.
func WithProgress(fn ProgressFunc) Option {
	return func(cfg *crawlConfig) {
		cfg.progress = fn
	}
}

// WithLogger sets the logger for warnings and verbose messages.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *crawlConfig) {
		cfg.logger = logger
	}
}
