package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/meigma/inventory"
	"github.com/meigma/inventory/internal/config"
	"github.com/meigma/inventory/internal/format"
	"github.com/meigma/inventory/internal/index"
)

// errTerminal is returned instead of writing the line stream to a tty.
var errTerminal = errors.New("will not write to a terminal (use --tty to override)")

type rootOpts struct {
	cfgFile        string
	ignoreNoBackup bool
}

const longRootDescription = `inventory walks every PATH, together with the directories above it, and
writes one line per filesystem object to stdout in path order, so every
directory is listed before anything inside it.

Regular files carry a content digest. Symbolic links and further names of a
hardlinked file are written as "path -> target". A directory containing a
.nobackup file contributes only that file.`

func newRootCmd() *cobra.Command {
	opts := &rootOpts{}

	cmd := &cobra.Command{
		Use:           progName + " [flags] PATH...",
		Short:         "List filesystem trees for incremental backups",
		Long:          longRootDescription,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInventory(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.cfgFile, "config", "c", "", "config file (default $XDG_CONFIG_HOME/inventory/config.yaml)")
	f.BoolVarP(&opts.ignoreNoBackup, "ignore-nobackup", "n", false, "do not honor .nobackup stop files")
	f.BoolP("one-filesystem", "x", false, "stay on the filesystem each PATH starts on")
	f.Bool("chown", false, "apply ._rdup_. ownership override records")
	f.String("nobackup-name", inventory.DefaultNoBackupName, "name of the stop file")
	f.CountP("verbose", "v", "log skipped objects (repeat for more)")
	f.StringArrayP("exclude", "e", nil, "exclude paths matching this regular expression (repeatable)")
	f.StringP("exclude-file", "E", "", "read exclusion expressions from `FILE`, one per line")
	f.String("hash", "sha256", "content digest: sha256, sha384, sha512, blake3 or none")
	f.Int("hash-workers", 0, "hash files on this many goroutines (0 hashes inline)")
	f.Bool("shared-links", false, "detect hardlinks across PATH arguments")
	f.Duration("timeout", 0, "abort the run after this long (0 disables)")
	f.StringP("format", "F", format.Default, "line layout of the output stream")
	f.String("index", "", "write a catalog snapshot to `FILE` instead of the line stream")
	f.Bool("tty", false, "allow writing the line stream to a terminal")
	f.String("log-level", "INFO", "minimum log level: DEBUG, INFO, WARN or ERROR")
	f.String("log-format", "text", "log format: text or json")

	cmd.AddCommand(newConfigCmd(), newShowCmd())
	return cmd
}

func runInventory(cmd *cobra.Command, args []string, opts *rootOpts) error {
	cfg, err := config.Load(opts.cfgFile, cmd.Flags())
	if err != nil {
		return err
	}
	if opts.ignoreNoBackup {
		cfg.Crawl.NoBackup = false
	}

	logger, err := newLogger(cmd.ErrOrStderr(), cfg.Logging)
	if err != nil {
		return err
	}
	crawlOpts, err := cfg.Crawl.Options()
	if err != nil {
		return err
	}
	crawlOpts = append(crawlOpts, inventory.WithLogger(logger))

	var layout *format.Format
	out := cmd.OutOrStdout()
	if cfg.Output.Index == "" {
		if layout, err = format.New(cfg.Output.Format); err != nil {
			return err
		}
		if !cfg.Output.TTY && isTerminal(out) {
			return errTerminal
		}
	}

	ctx := cmd.Context()
	if cfg.Crawl.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Crawl.Timeout)
		defer cancel()
	}

	c := inventory.NewCrawler(crawlOpts...)
	cat := inventory.NewCatalog()
	var errs []error
	for _, root := range args {
		if err := c.Walk(ctx, cat, root); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			logger.Error("skipping root", "path", root, "err", err)
			errs = append(errs, err)
		}
	}

	if layout != nil {
		err = layout.WriteCatalog(out, cat)
	} else {
		err = writeIndex(cfg.Output.Index, cat, c.HashAlgorithm())
	}
	if err != nil {
		return err
	}

	st := c.Stats()
	logger.Info("crawl finished",
		"roots", len(args),
		"entries", cat.Len(),
		"dropped", st.Dropped,
		"skipped", st.Skipped,
		"warnings", st.Warnings,
	)
	if len(errs) > 0 {
		return fmt.Errorf("%d of %d roots failed: %w", len(errs), len(args), errors.Join(errs...))
	}
	return nil
}

func writeIndex(path string, cat *inventory.Catalog, hashAlgorithm string) error {
	data := index.Build(cat, hashAlgorithm)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// isTerminal reports whether w is an *os.File attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// newLogger builds the diagnostics logger. Every record carries the
// program name.
func newLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	hopts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	if cfg.Format == "json" {
		h = slog.NewJSONHandler(w, hopts)
	} else {
		h = slog.NewTextHandler(w, hopts)
	}
	return slog.New(h).With("prog", progName), nil
}
