//go:build linux || darwin

package inventory

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/meigma/inventory/internal/exclude"
	"github.com/meigma/inventory/internal/hasher"
	"github.com/meigma/inventory/internal/platform"
	"github.com/meigma/inventory/internal/testutil"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func crawlPaths(t *testing.T, root string, opts ...Option) (*Catalog, *Crawler) {
	t.Helper()
	c := NewCrawler(opts...)
	cat := NewCatalog()
	require.NoError(t, c.Crawl(context.Background(), cat, root))
	return cat, c
}

func requireEntry(t *testing.T, cat *Catalog, path string) Entry {
	t.Helper()
	e, ok := cat.Get(path)
	require.True(t, ok, "missing entry %s", path)
	return e
}

func skipIfRoot(t *testing.T) {
	t.Helper()
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
}

func TestCrawlSmallTree(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	a := filepath.Join(root, "a")
	testutil.CreateFiles(t, a, map[string]string{
		"b":   "hello",
		"c/d": "world",
	})

	cat, c := crawlPaths(t, a)
	assert.Equal(t, []string{a + "/b", a + "/c", a + "/c/d"}, cat.Paths())

	b := requireEntry(t, cat, a+"/b")
	assert.True(t, b.Mode.IsRegular())
	assert.Equal(t, int64(5), b.Size)
	assert.Equal(t, sha256Hex("hello"), b.Hash)
	assert.Empty(t, b.Target)
	assert.False(t, b.Hardlink)
	assert.NotEmpty(t, b.User)
	assert.NotEmpty(t, b.Group)

	dir := requireEntry(t, cat, a+"/c")
	assert.True(t, dir.IsDir())
	assert.Empty(t, dir.Hash)

	assert.Equal(t, sha256Hex("world"), requireEntry(t, cat, a+"/c/d").Hash)
	assert.Equal(t, 3, c.Stats().Entries)
	assert.Zero(t, c.Stats().Warnings)
	assert.Equal(t, hasher.SHA256, c.HashAlgorithm())
}

func TestCrawlParentsBeforeChildren(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"a/c":     "",
		"a-b":     "",
		"a.b/z/y": "",
		"a/d/e/f": "",
		"b/":      "",
	})

	cat, _ := crawlPaths(t, root)
	assert.Len(t, cat.Paths(), 10)
	assertParentsFirst(t, cat)
}

func TestCrawlHardlinks(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"one":  "shared content",
		"sub/": "",
	})
	testutil.Hardlink(t, root, "one", "two")
	testutil.Hardlink(t, root, "one", "sub/three")

	cat, _ := crawlPaths(t, root)

	one := requireEntry(t, cat, root+"/one")
	assert.False(t, one.Hardlink)
	assert.Equal(t, sha256Hex("shared content"), one.Hash)
	assert.Equal(t, uint64(3), one.Nlink)

	for _, name := range []string{"/two", "/sub/three"} {
		e := requireEntry(t, cat, root+name)
		assert.True(t, e.Hardlink, name)
		assert.Equal(t, root+"/one", e.Target, name)
		assert.Empty(t, e.Hash, name)
		assert.Equal(t, len(e.Path)+len(LinkSeparator)+len(root+"/one"), e.NameSize())
		assert.Equal(t, int64(len(e.Path)), e.WireSize())
	}
}

func TestCrawlSymlinks(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"file": "x"})
	testutil.Symlink(t, root, "file", "link")
	testutil.Symlink(t, root, "does/not/exist", "broken")

	cat, _ := crawlPaths(t, root)

	link := requireEntry(t, cat, root+"/link")
	assert.True(t, link.IsSymlink())
	assert.False(t, link.Hardlink)
	assert.Equal(t, "file", link.Target)
	assert.Empty(t, link.Hash)
	assert.Equal(t, len(root+"/link")+4+len("file"), link.NameSize())
	assert.Equal(t, int64(len(root+"/link")), link.WireSize())

	broken := requireEntry(t, cat, root+"/broken")
	assert.Equal(t, "does/not/exist", broken.Target)
}

func TestCrawlSymlinkReadFailure(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.Symlink(t, root, "target", "link")
	testutil.CreateFiles(t, root, map[string]string{"file": "x"})

	c := NewCrawler()
	c.readlink = func(string) (string, error) { return "", fs.ErrPermission }
	cat := NewCatalog()
	require.NoError(t, c.Crawl(context.Background(), cat, root))

	assert.Equal(t, []string{root + "/file"}, cat.Paths())
	assert.Equal(t, 1, c.Stats().Warnings)
}

func TestCrawlSpecialFile(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	require.NoError(t, unix.Mkfifo(filepath.Join(root, "fifo"), 0o644))

	cat, _ := crawlPaths(t, root)

	e := requireEntry(t, cat, root+"/fifo")
	assert.NotZero(t, e.Mode&fs.ModeNamedPipe)
	assert.Empty(t, e.Hash)
	assert.Empty(t, e.Target)
}

func TestCrawlNoBackup(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"b":           "b",
		"c/+early":    "dropped",
		"c/.nobackup": "",
		"c/d":         "d",
		"c/e/f":       "f",
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		cat, c := crawlPaths(t, root, WithNoBackup(true))
		assert.Equal(t, []string{root + "/b", root + "/c", root + "/c/.nobackup"}, cat.Paths())
		assert.Equal(t, 1, c.Stats().Dropped)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		cat, _ := crawlPaths(t, root)
		assert.Equal(t, []string{
			root + "/b",
			root + "/c",
			root + "/c/+early",
			root + "/c/.nobackup",
			root + "/c/d",
			root + "/c/e",
			root + "/c/e/f",
		}, cat.Paths())
	})

	t.Run("custom name", func(t *testing.T) {
		t.Parallel()
		cat, _ := crawlPaths(t, root, WithNoBackup(true), WithNoBackupName("d"))
		assert.Equal(t, []string{
			root + "/b",
			root + "/c",
			root + "/c/d",
		}, cat.Paths())
	})
}

func TestCrawlNoBackupForgetsDroppedLinks(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"b/+first":    "linked",
		"b/.nobackup": "",
		"a/":          "",
	})
	testutil.Hardlink(t, root, "b/+first", "a/second")

	// Subdirectories are entered last found first, so b is crawled before a.
	cat, _ := crawlPaths(t, root, WithNoBackup(true))

	assert.False(t, cat.Has(root+"/b/+first"))
	second := requireEntry(t, cat, root+"/a/second")
	assert.False(t, second.Hardlink)
	assert.Empty(t, second.Target)
	assert.Equal(t, sha256Hex("linked"), second.Hash)
}

func TestCrawlOneFilesystem(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"file":      "x",
		"mnt/inner": "y",
		"local/z":   "z",
	})
	mnt := root + "/mnt"

	// Pretend mnt lives on another device.
	fakeDev := func(c *Crawler) {
		c.lstat = func(path string) (platform.Stat, error) {
			st, err := platform.Lstat(path)
			if err == nil && path == mnt {
				st.Dev++
			}
			return st, err
		}
	}

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		logger, logs := testutil.NewLogger()
		c := NewCrawler(WithOneFilesystem(true), WithVerbose(1), WithLogger(logger))
		fakeDev(c)
		cat := NewCatalog()
		require.NoError(t, c.Crawl(context.Background(), cat, root))

		assert.Equal(t, []string{root + "/file", root + "/local", root + "/local/z"}, cat.Paths())
		assert.Equal(t, 1, c.Stats().Skipped)
		assert.Contains(t, logs.String(), "not walking into different filesystem")
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		c := NewCrawler()
		fakeDev(c)
		cat := NewCatalog()
		require.NoError(t, c.Crawl(context.Background(), cat, root))

		assert.True(t, cat.Has(mnt))
		assert.True(t, cat.Has(mnt+"/inner"))
	})
}

func TestCrawlExclude(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"keep.c":     "",
		"drop.o":     "",
		"skip/inner": "",
		"sub/x.o":    "",
		"sub/y":      "",
	})

	pats, err := exclude.Compile([]string{`\.o$`, `/skip$`})
	require.NoError(t, err)

	cat, c := crawlPaths(t, root, WithExclude(pats))
	assert.Equal(t, []string{root + "/keep.c", root + "/sub", root + "/sub/y"}, cat.Paths())
	assert.Equal(t, 3, c.Stats().Skipped)
}

func TestCrawlNewlineInName(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"ok": ""})
	require.NoError(t, os.WriteFile(filepath.Join(root, "bad\nname"), nil, 0o644))

	logger, logs := testutil.NewLogger()
	cat, c := crawlPaths(t, root, WithLogger(logger))

	assert.Equal(t, []string{root + "/ok"}, cat.Paths())
	assert.Equal(t, 1, c.Stats().Warnings)
	assert.Equal(t, 1, c.Stats().Skipped)
	assert.Contains(t, logs.String(), "newline found in path")
}

func TestCrawlChownOverride(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"file":         "x",
		"._rdup_.file": "alice:1000/staff:50\n",
		"sub/._rdup_.": "bob:1001/users:100",
		"sub/inner":    "",
	})

	t.Run("enabled", func(t *testing.T) {
		t.Parallel()
		cat, _ := crawlPaths(t, root, WithChown(true))
		assert.Equal(t, []string{root + "/file", root + "/sub", root + "/sub/inner"}, cat.Paths())

		file := requireEntry(t, cat, root+"/file")
		assert.Equal(t, "alice", file.User)
		assert.Equal(t, uint32(1000), file.UID)
		assert.Equal(t, "staff", file.Group)
		assert.Equal(t, uint32(50), file.GID)

		sub := requireEntry(t, cat, root+"/sub")
		assert.Equal(t, "bob", sub.User)
		assert.Equal(t, uint32(1001), sub.UID)
		assert.Equal(t, "users", sub.Group)
		assert.Equal(t, uint32(100), sub.GID)

		inner := requireEntry(t, cat, root+"/sub/inner")
		assert.Equal(t, uint32(os.Getuid()), inner.UID)
	})

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		cat, _ := crawlPaths(t, root)
		assert.True(t, cat.Has(root+"/._rdup_.file"))
		assert.True(t, cat.Has(root+"/sub/._rdup_."))
		assert.Equal(t, uint32(os.Getuid()), requireEntry(t, cat, root+"/file").UID)
	})
}

func TestCrawlMalformedChownRecord(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"file":         "x",
		"._rdup_.file": "garbage",
	})

	cat, c := crawlPaths(t, root, WithChown(true))
	assert.Equal(t, uint32(os.Getuid()), requireEntry(t, cat, root+"/file").UID)
	assert.Equal(t, 1, c.Stats().Warnings)
}

func TestCrawlRoot(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"file": "x"})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		err := NewCrawler().Crawl(context.Background(), NewCatalog(), root+"/missing")
		require.ErrorIs(t, err, ErrOpenRoot)
	})

	t.Run("regular file", func(t *testing.T) {
		t.Parallel()
		cat := NewCatalog()
		require.NoError(t, NewCrawler().Crawl(context.Background(), cat, root+"/file"))
		assert.Zero(t, cat.Len())
	})

	t.Run("unreadable", func(t *testing.T) {
		skipIfRoot(t)
		dir := testutil.TempDir(t)
		require.NoError(t, os.Chmod(dir, 0))
		t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

		err := NewCrawler().Crawl(context.Background(), NewCatalog(), dir)
		require.ErrorIs(t, err, ErrOpenRoot)
	})
}

func TestCrawlRelativeRoot(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"file": "x"})
	t.Chdir(root)

	cat := NewCatalog()
	require.NoError(t, NewCrawler().Crawl(context.Background(), cat, "."))
	assert.Equal(t, []string{root + "/file"}, cat.Paths())
}

func TestCrawlUnreadableSubdirectory(t *testing.T) {
	skipIfRoot(t)

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"locked/secret": "s",
		"open/file":     "f",
	})
	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	logger, logs := testutil.NewLogger()
	cat, c := crawlPaths(t, root, WithLogger(logger))

	assert.Equal(t, []string{root + "/locked", root + "/open", root + "/open/file"}, cat.Paths())
	assert.Equal(t, 1, c.Stats().Warnings)
	assert.Contains(t, logs.String(), "cannot enter directory")
}

func TestCrawlUnreadableFile(t *testing.T) {
	skipIfRoot(t)

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"secret": "s"})
	require.NoError(t, os.Chmod(filepath.Join(root, "secret"), 0))

	for _, workers := range []int{0, 4} {
		cat, c := crawlPaths(t, root, WithHashWorkers(workers))
		e := requireEntry(t, cat, root+"/secret")
		assert.Empty(t, e.Hash, "workers=%d", workers)
		assert.Equal(t, 1, c.Stats().Warnings, "workers=%d", workers)
	}
}

func TestCrawlHashAlgorithms(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"f": "abc", "d/": ""})

	t.Run("none", func(t *testing.T) {
		t.Parallel()
		cat, c := crawlPaths(t, root, WithHashAlgorithm(hasher.None))
		assert.Equal(t, hasher.Unavailable, requireEntry(t, cat, root+"/f").Hash)
		assert.Empty(t, requireEntry(t, cat, root+"/d").Hash)
		assert.Equal(t, hasher.None, c.HashAlgorithm())
	})

	for _, alg := range []string{hasher.SHA384, hasher.SHA512, hasher.BLAKE3} {
		t.Run(alg, func(t *testing.T) {
			t.Parallel()
			want, err := hasher.New(alg).Hash(filepath.Join(root, "f"))
			require.NoError(t, err)

			cat, _ := crawlPaths(t, root, WithHashAlgorithm(alg))
			assert.Equal(t, want, requireEntry(t, cat, root+"/f").Hash)
		})
	}
}

func TestCrawlHashWorkersMatchInline(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	files := make(map[string]string)
	for i := range 40 {
		files[fmt.Sprintf("dir/%c/f%02d", 'a'+i%5, i)] = fmt.Sprintf("content %d", i)
	}
	testutil.CreateFiles(t, root, files)
	testutil.Hardlink(t, root, "dir/a/f00", "dir/linked")

	inline, _ := crawlPaths(t, root)
	parallel, _ := crawlPaths(t, root, WithHashWorkers(4))

	require.Equal(t, inline.Paths(), parallel.Paths())
	for e := range inline.All() {
		p := requireEntry(t, parallel, e.Path)
		assert.Equal(t, e.Hash, p.Hash, e.Path)
		assert.Equal(t, e.Hardlink, p.Hardlink, e.Path)
	}
}

func TestCrawlIdempotent(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"a":     "1",
		"b/c":   "2",
		"b/d/e": "3",
	})
	testutil.Hardlink(t, root, "a", "b/a2")

	c := NewCrawler()
	first := NewCatalog()
	second := NewCatalog()
	require.NoError(t, c.Crawl(context.Background(), first, root))
	require.NoError(t, c.Crawl(context.Background(), second, root))

	assert.Equal(t, collect(first), collect(second))
}

func TestCrawlSharedLinks(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"r1/f": "content", "r2/": ""})
	testutil.Hardlink(t, root, "r1/f", "r2/g")

	crawlBoth := func(opts ...Option) *Catalog {
		c := NewCrawler(opts...)
		cat := NewCatalog()
		require.NoError(t, c.Crawl(context.Background(), cat, root+"/r1"))
		require.NoError(t, c.Crawl(context.Background(), cat, root+"/r2"))
		return cat
	}

	perRoot := crawlBoth()
	g := requireEntry(t, perRoot, root+"/r2/g")
	assert.False(t, g.Hardlink)
	assert.Equal(t, sha256Hex("content"), g.Hash)

	shared := crawlBoth(WithSharedLinks(true))
	g = requireEntry(t, shared, root+"/r2/g")
	assert.True(t, g.Hardlink)
	assert.Equal(t, root+"/r1/f", g.Target)
}

func TestWalkSharedLinksOverlappingRoots(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"a/c/f": "content"})
	testutil.Hardlink(t, root, "a/c/f", "a/c/g")
	a, c := root+"/a", root+"/a/c"

	cr := NewCrawler(WithSharedLinks(true))
	cat := NewCatalog()
	require.NoError(t, cr.Walk(context.Background(), cat, a))
	require.NoError(t, cr.Walk(context.Background(), cat, c))

	f := requireEntry(t, cat, c+"/f")
	assert.False(t, f.Hardlink)
	assert.Empty(t, f.Target)
	assert.Equal(t, sha256Hex("content"), f.Hash)

	g := requireEntry(t, cat, c+"/g")
	assert.True(t, g.Hardlink)
	assert.Equal(t, c+"/f", g.Target)
}

func TestCrawlStatsCountReplacementsOnce(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"a/b": "b", "c": "c"})

	c := NewCrawler()
	cat := NewCatalog()
	require.NoError(t, c.Crawl(context.Background(), cat, root))
	require.Equal(t, 3, c.Stats().Entries)

	require.NoError(t, c.Crawl(context.Background(), cat, root))
	assert.Equal(t, 3, c.Stats().Entries)
	assert.Equal(t, 3, cat.Len())
}

func TestCrawlCancelled(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"a/b": ""})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewCrawler().Crawl(ctx, NewCatalog(), root)
	require.ErrorIs(t, err, context.Canceled)
}

func TestWalk(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"a/b":   "b",
		"a/c/d": "d",
		"other": "",
	})
	a := root + "/a"

	t.Run("directory", func(t *testing.T) {
		t.Parallel()
		c := NewCrawler()
		cat := NewCatalog()
		require.NoError(t, c.Walk(context.Background(), cat, a))

		want := append(ancestors(a), a, a+"/b", a+"/c", a+"/c/d")
		assert.Equal(t, want, cat.Paths())
		assert.True(t, requireEntry(t, cat, a).IsDir())
		assertParentsFirst(t, cat)
	})

	t.Run("file", func(t *testing.T) {
		t.Parallel()
		cat := NewCatalog()
		require.NoError(t, NewCrawler().Walk(context.Background(), cat, a+"/b"))

		want := append(ancestors(a+"/b"), a+"/b")
		assert.Equal(t, want, cat.Paths())
		assert.Equal(t, sha256Hex("b"), requireEntry(t, cat, a+"/b").Hash)
	})

	t.Run("file with hash workers", func(t *testing.T) {
		t.Parallel()
		cat := NewCatalog()
		require.NoError(t, NewCrawler(WithHashWorkers(2)).Walk(context.Background(), cat, a+"/b"))
		assert.Equal(t, sha256Hex("b"), requireEntry(t, cat, a+"/b").Hash)
	})

	t.Run("missing", func(t *testing.T) {
		t.Parallel()
		err := NewCrawler().Walk(context.Background(), NewCatalog(), a+"/missing")
		require.ErrorIs(t, err, ErrOpenRoot)
	})
}

// collect returns the entries of cat without access times, which reading
// the tree is allowed to change.
func collect(cat *Catalog) []Entry {
	var out []Entry
	for e := range cat.All() {
		e.Atime = time.Time{}
		out = append(out, e)
	}
	return out
}

func TestCrawlProgress(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"a":   "1",
		"b":   "2",
		"d/c": "3",
	})

	for _, workers := range []int{0, 3} {
		var events []ProgressEvent
		c := NewCrawler(
			WithHashWorkers(workers),
			WithProgress(func(ev ProgressEvent) { events = append(events, ev) }),
		)
		require.NoError(t, c.Crawl(context.Background(), NewCatalog(), root))

		var crawled, hashed []string
		last := ProgressEvent{}
		for _, ev := range events {
			switch ev.Stage {
			case StageCrawling:
				crawled = append(crawled, ev.Path)
			case StageHashing:
				hashed = append(hashed, ev.Path)
				last = ev
			}
		}
		assert.ElementsMatch(t, []string{root + "/a", root + "/b", root + "/d", root + "/d/c"}, crawled, "workers=%d", workers)
		assert.ElementsMatch(t, []string{root + "/a", root + "/b", root + "/d/c"}, hashed, "workers=%d", workers)
		assert.Equal(t, 3, last.FilesDone, "workers=%d", workers)
		assert.Equal(t, 4, c.Stats().Entries, "workers=%d", workers)
	}
}

func TestCrawlStopFileSkipsQueuedHashes(t *testing.T) {
	t.Parallel()

	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"+early":    "x",
		".nobackup": "",
	})

	var hashed []string
	c := NewCrawler(
		WithNoBackup(true),
		WithHashWorkers(2),
		WithProgress(func(ev ProgressEvent) {
			if ev.Stage == StageHashing {
				hashed = append(hashed, ev.Path)
			}
		}),
	)
	cat := NewCatalog()
	require.NoError(t, c.Crawl(context.Background(), cat, root))

	assert.Equal(t, []string{root + "/.nobackup"}, cat.Paths())
	assert.Equal(t, []string{root + "/.nobackup"}, hashed)
}

func TestProgressStageString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "crawling", StageCrawling.String())
	assert.Equal(t, "hashing", StageHashing.String())
	assert.Equal(t, "unknown", ProgressStage(99).String())
}
