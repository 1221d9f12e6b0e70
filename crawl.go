package inventory

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/meigma/inventory/internal/batch"
	"github.com/meigma/inventory/internal/chown"
	"github.com/meigma/inventory/internal/hasher"
	"github.com/meigma/inventory/internal/identity"
	"github.com/meigma/inventory/internal/platform"
)

// Stats counts what a Crawler did across every call.
type Stats struct {
	// Entries is the number of paths added to a catalog. Replacing an
	// existing path does not count.
	Entries int
	// Dropped is the number of entries removed again by stop files.
	Dropped int
	// Skipped counts members left out: excluded, unrepresentable, on another
	// filesystem, or of an unsupported type.
	Skipped int
	// Warnings counts non-fatal errors that were logged.
	Warnings int
}

// Crawler walks directory trees into a Catalog.
//
// A Crawler owns the name caches and the hardlink map used while crawling,
// so one Crawler should be used for every root that ends up in the same
// catalog. It is not safe for concurrent use.
type Crawler struct {
	cfg    crawlConfig
	names  *identity.Names
	links  *identity.Links
	hasher *hasher.Hasher
	stats  Stats
	queued []string
	hashed int

	lstat    func(string) (platform.Stat, error)
	fstat    func(*os.File) (platform.Stat, error)
	readlink func(string) (string, error)
}

// NewCrawler returns a Crawler configured by opts.
func NewCrawler(opts ...Option) *Crawler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Crawler{
		cfg:      cfg,
		names:    identity.NewNames(),
		links:    identity.NewLinks(),
		hasher:   hasher.New(cfg.hashAlgorithm),
		lstat:    platform.Lstat,
		fstat:    platform.Fstat,
		readlink: os.Readlink,
	}
}

// Stats returns the counters accumulated so far.
func (c *Crawler) Stats() Stats {
	return c.stats
}

// HashAlgorithm returns the digest algorithm recorded in Entry.Hash.
func (c *Crawler) HashAlgorithm() string {
	return c.hasher.Algorithm()
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Crawler) log() *slog.Logger {
	if c.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.cfg.logger
}

func (c *Crawler) warn(msg string, args ...any) {
	c.stats.Warnings++
	c.log().Warn(msg, args...)
}

func (c *Crawler) verbose(msg string, args ...any) {
	if c.cfg.verbose > 0 {
		c.log().Info(msg, args...)
	}
}

// Walk records path itself, every directory above it, and everything
// below it. It is the usual entry point for one backup root.
//
// Walk fails when an ancestor cannot be represented (see Prepend), when path
// does not exist, or when path is a directory that cannot be opened. Per-entry
// problems below path are logged and skipped.
func (c *Crawler) Walk(ctx context.Context, cat *Catalog, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	c.beginRoot()

	if err := c.prepend(ctx, cat, path); err != nil {
		return err
	}

	st, err := c.lstat(path)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrOpenRoot, path, err)
	}
	if !st.Mode.IsDir() {
		if e, ok := c.leafEntry(filepath.Dir(path), filepath.Base(path), path, st); ok {
			c.insert(cat, e)
		}
		return c.flushHashes(ctx, cat)
	}

	c.insert(cat, c.dirEntry(path, st))
	if err := c.crawl(ctx, cat, path, true); err != nil {
		c.queued = nil
		return err
	}
	return c.flushHashes(ctx, cat)
}

// Crawl records everything below path. path itself is not recorded; use
// Prepend or Walk for that.
//
// Crawl only returns an error when path cannot be entered and is not a
// readable non-directory, or when ctx is cancelled. Unreadable members,
// broken links and nested permission errors are logged and skipped.
func (c *Crawler) Crawl(ctx context.Context, cat *Catalog, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	c.beginRoot()

	if err := c.crawl(ctx, cat, path, true); err != nil {
		c.queued = nil
		return err
	}
	return c.flushHashes(ctx, cat)
}

func (c *Crawler) beginRoot() {
	if !c.cfg.sharedLinks {
		c.links.Reset()
	}
	c.queued = c.queued[:0]
	c.hashed = 0
}

// crawl processes one directory level and then descends into the
// subdirectories it found, last found first.
func (c *Crawler) crawl(ctx context.Context, cat *Catalog, path string, root bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir, err := os.Open(path)
	if err != nil {
		if platform.Readable(path) {
			return nil
		}
		if root {
			return fmt.Errorf("%w %s: %w", ErrOpenRoot, path, err)
		}
		c.warn("cannot enter directory", "path", path, "err", err)
		return nil
	}

	st, err := c.fstat(dir)
	if err != nil {
		dir.Close()
		c.warn("cannot determine holding device of directory", "path", path, "err", err)
		return nil
	}
	if !st.Mode.IsDir() {
		// Non-directories are recorded by whoever asked for them.
		dir.Close()
		return nil
	}

	names, err := dir.Readdirnames(-1)
	dir.Close()
	if err != nil {
		c.warn("cannot read directory", "path", path, "err", err)
	}
	slices.Sort(names)

	var pending []Entry
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name == "." || name == ".." {
			continue
		}
		if c.cfg.chown && chown.IsMarker(name) {
			continue
		}

		child := joinPath(path, name)
		if strings.ContainsRune(child, '\n') {
			c.stats.Skipped++
			c.warn("newline found in path, skipping", "path", child)
			continue
		}
		if c.cfg.exclude != nil && c.cfg.exclude.Match(child) {
			c.stats.Skipped++
			continue
		}

		cst, err := c.lstat(child)
		if err != nil {
			c.warn("could not stat path", "path", child, "err", err)
			continue
		}

		switch {
		case cst.Mode.IsDir():
			if c.cfg.oneFilesystem && cst.Dev != st.Dev {
				c.stats.Skipped++
				c.verbose("not walking into different filesystem", "path", child)
				continue
			}
			pending = append(pending, c.dirEntry(child, cst))

		case cst.Mode.IsRegular(), cst.Mode&fs.ModeSymlink != 0, platform.IsSpecial(cst.Mode):
			e, ok := c.leafEntry(path, name, child, cst)
			if !ok {
				continue
			}
			if c.cfg.noBackup && name == c.cfg.noBackupName {
				c.verbose("stop file found", "name", name, "path", path)
				c.dropUnder(cat, path)
				c.insert(cat, e)
				return nil
			}
			c.insert(cat, e)

		default:
			c.stats.Skipped++
			c.verbose("neither file nor directory", "path", child)
		}
	}

	for len(pending) > 0 {
		d := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		c.insert(cat, d)
		if err := c.crawl(ctx, cat, d.Path, false); err != nil {
			return err
		}
	}
	return nil
}

func (c *Crawler) insert(cat *Catalog, e Entry) {
	if !cat.Insert(e) {
		c.stats.Entries++
	}
	c.reportProgress(StageCrawling, e.Path, 0, 0)
}

// dropUnder removes what this level already contributed to cat. Files that
// were the first name of a hardlinked inode are forgotten so a later name
// for the same content is recorded in full.
func (c *Crawler) dropUnder(cat *Catalog, dir string) {
	removed := cat.DeleteUnder(dir)
	c.stats.Dropped += len(removed)
	for i := range removed {
		e := &removed[i]
		if !e.Hardlink && !e.IsDir() && e.Nlink > 1 {
			c.links.Forget(e.Dev, e.Ino, e.Path)
		}
	}
}

func (c *Crawler) newEntry(path string, st platform.Stat) Entry {
	return Entry{
		Path:  path,
		UID:   st.UID,
		GID:   st.GID,
		User:  c.names.User(st.UID),
		Group: c.names.Group(st.GID),
		Atime: st.Atime,
		Mtime: st.Mtime,
		Ctime: st.Ctime,
		Mode:  st.Mode,
		Size:  st.Size,
		Dev:   st.Dev,
		Rdev:  st.Rdev,
		Ino:   st.Ino,
		Nlink: st.Nlink,
	}
}

func (c *Crawler) dirEntry(path string, st platform.Stat) Entry {
	e := c.newEntry(path, st)
	if c.cfg.chown {
		c.override(&e, path, "")
	}
	return e
}

// leafEntry builds the entry for a regular file, symlink or special file
// named name inside dir. ok is false when the entry must be skipped.
func (c *Crawler) leafEntry(dir, name, path string, st platform.Stat) (e Entry, ok bool) {
	e = c.newEntry(path, st)

	var target string
	if e.IsSymlink() {
		t, err := c.readlink(path)
		if err != nil {
			c.warn("could not read symlink", "path", path, "err", err)
			return Entry{}, false
		}
		target = t
	}

	if st.Nlink > 1 {
		if first, seen := c.links.Resolve(st.Dev, st.Ino, path); seen {
			e.Hardlink = true
			e.Target = first
		}
	}

	if st.Mode.IsRegular() && !e.Hardlink {
		c.hashEntry(&e)
	}

	if e.IsSymlink() {
		e.Target = target
	}

	if c.cfg.chown {
		c.override(&e, dir, name)
	}
	return e, true
}

func (c *Crawler) hashEntry(e *Entry) {
	if c.cfg.hashWorkers > 1 && c.hasher.Available() {
		c.queued = append(c.queued, e.Path)
		return
	}
	sum, err := c.hasher.Hash(e.Path)
	if err != nil {
		c.warn("could not hash file", "path", e.Path, "err", err)
		return
	}
	e.Hash = sum
	c.hashed++
	c.reportProgress(StageHashing, e.Path, c.hashed, 0)
}

// flushHashes computes the digests queued during a traversal and stores
// them on the catalog entries that are still present.
func (c *Crawler) flushHashes(ctx context.Context, cat *Catalog) error {
	if len(c.queued) == 0 {
		return nil
	}
	// Files removed again by a stop file are not hashed.
	paths := make([]string, 0, len(c.queued))
	for _, path := range c.queued {
		if cat.Has(path) {
			paths = append(paths, path)
		}
	}
	c.queued = c.queued[:0]

	p := batch.NewProcessor(c.hasher.Hash,
		batch.WithWorkers(c.cfg.hashWorkers),
		batch.WithProcessorLogger(c.cfg.logger),
	)
	results, err := p.Process(ctx, paths)
	if err != nil {
		return err
	}
	for i, r := range results {
		if r.Err != nil {
			c.warn("could not hash file", "path", r.Path, "err", r.Err)
			continue
		}
		if cat.update(r.Path, func(e *Entry) { e.Hash = r.Hash }) {
			c.reportProgress(StageHashing, r.Path, i+1, len(results))
		}
	}
	return nil
}

func (c *Crawler) override(e *Entry, dir, name string) {
	rec, ok, err := chown.Lookup(dir, name)
	if err != nil {
		c.warn("could not read ownership record", "path", chown.RecordPath(dir, name), "err", err)
		return
	}
	if !ok {
		return
	}
	e.UID = rec.UID
	e.GID = rec.GID
	e.User = rec.User
	e.Group = rec.Group
}

// cleanPath makes path absolute and removes redundant separators.
func cleanPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	return abs, nil
}

func joinPath(dir, name string) string {
	if dir == "/" {
		return "/" + name
	}
	return dir + "/" + name
}
