// Package batch hashes a set of files on a bounded pool of goroutines.
package batch

import (
	"context"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// HashFunc computes the digest of the file at path.
type HashFunc func(path string) (string, error)

// Result is the outcome for one path.
type Result struct {
	Path string
	Hash string
	Err  error
}

// Processor runs a HashFunc over many paths.
type Processor struct {
	hash    HashFunc
	workers int
	logger  *slog.Logger
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithWorkers sets the number of concurrent hash goroutines.
// Values < 1 use runtime.NumCPU().
func WithWorkers(n int) ProcessorOption {
	return func(p *Processor) {
		p.workers = n
	}
}

// WithProcessorLogger sets the logger for batch processing.
// If not set, logging is disabled.
func WithProcessorLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		p.logger = logger
	}
}

// NewProcessor creates a processor that hashes with fn.
func NewProcessor(fn HashFunc, opts ...ProcessorOption) *Processor {
	p := &Processor{hash: fn}
	for _, opt := range opts {
		opt(p)
	}
	if p.workers < 1 {
		p.workers = runtime.NumCPU()
	}
	return p
}

// log returns the logger, falling back to a discard logger if nil.
func (p *Processor) log() *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger
}

// Process hashes every path and returns one Result per path, in input
// order. Per-file failures are reported in Result.Err; the returned error is
// only set when ctx is cancelled.
func (p *Processor) Process(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	workers := min(p.workers, len(paths))
	p.log().Debug("hashing files", "count", len(paths), "workers", workers)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			sum, err := p.hash(path)
			results[i] = Result{Path: path, Hash: sum, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
