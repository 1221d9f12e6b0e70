//go:build linux || darwin

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/inventory/internal/config"
	"github.com/meigma/inventory/internal/testutil"
)

// execute runs the command with an isolated configuration directory and
// returns stdout and stderr.
func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestInventoryLines(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"a/b":   "x",
		"a/c/d": "",
	})
	a := root + "/a"

	stdout, stderr, err := execute(t, "--format", `%T %N\n`, a)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	// Ancestors come first, then the root and its contents.
	assert.Equal(t, []string{
		"d " + a,
		"- " + a + "/b",
		"d " + a + "/c",
		"- " + a + "/c/d",
	}, lines[len(lines)-4:])
	for _, l := range lines[:len(lines)-4] {
		assert.True(t, strings.HasPrefix(l, "d "), l)
	}
	assert.Contains(t, stderr, "crawl finished")
	assert.Contains(t, stderr, "prog=inventory")
}

func TestInventoryDefaultLayout(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"f": "hello"})
	testutil.Symlink(t, root, "f", "l")

	stdout, _, err := execute(t, root)
	require.NoError(t, err)
	assert.Contains(t, stdout, " 5 "+root+"/f\n")
	assert.Contains(t, stdout, "+l ")
	assert.Contains(t, stdout, root+"/l -> f\n")
}

func TestInventoryNoBackup(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"keep":          "",
		"sub/.nobackup": "",
		"sub/gone":      "",
	})

	stdout, _, err := execute(t, "-F", `%N\n`, root)
	require.NoError(t, err)
	assert.Contains(t, stdout, root+"/sub/.nobackup\n")
	assert.NotContains(t, stdout, root+"/sub/gone")

	stdout, _, err = execute(t, "-n", "-F", `%N\n`, root)
	require.NoError(t, err)
	assert.Contains(t, stdout, root+"/sub/gone\n")
}

func TestInventoryExcludeFile(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"keep.c": "",
		"drop.o": "",
	})
	excludeFile := filepath.Join(t.TempDir(), "exclude")
	require.NoError(t, os.WriteFile(excludeFile, []byte(`\.o$`+"\n"), 0o644))

	stdout, _, err := execute(t, "-E", excludeFile, "-F", `%N\n`, root)
	require.NoError(t, err)
	assert.Contains(t, stdout, root+"/keep.c\n")
	assert.NotContains(t, stdout, "drop.o")
}

func TestInventoryFailedRootKeepsOthers(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"ok/file": ""})

	stdout, stderr, err := execute(t, "-F", `%N\n`, root+"/missing", root+"/ok")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 roots failed")
	assert.Contains(t, stdout, root+"/ok/file\n")
	assert.Contains(t, stderr, "skipping root")
}

func TestInventoryBadLayout(t *testing.T) {
	root := testutil.TempDir(t)

	_, _, err := execute(t, "-F", "%z", root)
	require.Error(t, err)
}

func TestInventoryRequiresPath(t *testing.T) {
	_, _, err := execute(t)
	require.Error(t, err)
}

func TestIndexAndShow(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{
		"a/one":  "1",
		"ab/two": "2",
	})
	snapshot := filepath.Join(t.TempDir(), "catalog.idx")

	stdout, _, err := execute(t, "--index", snapshot, "--hash", "blake3", root)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	stdout, stderr, err := execute(t, "show", "-F", `%N\n`, snapshot, root+"/a")
	require.NoError(t, err)
	assert.Equal(t, root+"/a\n"+root+"/a/one\n", stdout)
	assert.Contains(t, stderr, "hash blake3")
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.yaml")

	stdout, _, err := execute(t, "config", "init", "--path", path)
	require.NoError(t, err)
	assert.Contains(t, stdout, path)

	cfg, err := config.Load(path, nil)
	require.NoError(t, err)
	assert.True(t, cfg.Crawl.NoBackup)

	_, _, err = execute(t, "config", "init", "--path", path)
	require.ErrorIs(t, err, config.ErrConfigExists)
}

func TestConfigFileApplies(t *testing.T) {
	root := testutil.TempDir(t)
	testutil.CreateFiles(t, root, map[string]string{"f": "x"})
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("crawl:\n  hash_algorithm: none\noutput:\n  format: \"%H %N\\n\"\n"), 0o644))

	stdout, _, err := execute(t, "-c", cfgPath, root)
	require.NoError(t, err)
	assert.Contains(t, stdout, "0000000000000000000000000000000000000000 "+root+"/f\n")
}
