// Package testutil builds directory trees and captures logs for tests.
package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// TempDir returns a fresh temporary directory with every symlink in its
// path resolved, so ancestors of the returned path are real directories.
func TempDir(tb testing.TB) string {
	tb.Helper()
	dir, err := filepath.EvalSymlinks(tb.TempDir())
	if err != nil {
		tb.Fatalf("resolve temp dir: %v", err)
	}
	return dir
}

// CreateFiles writes files below dir. Keys are slash-separated relative
// paths; a key ending in "/" creates an empty directory.
func CreateFiles(tb testing.TB, dir string, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if strings.HasSuffix(name, "/") {
			if err := os.MkdirAll(path, 0o755); err != nil {
				tb.Fatalf("mkdir %s: %v", name, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			tb.Fatalf("mkdir for %s: %v", name, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			tb.Fatalf("write %s: %v", name, err)
		}
	}
}

// Symlink creates link below dir pointing at target.
func Symlink(tb testing.TB, dir, target, link string) {
	tb.Helper()
	if err := os.Symlink(target, filepath.Join(dir, filepath.FromSlash(link))); err != nil {
		tb.Fatalf("symlink %s: %v", link, err)
	}
}

// Hardlink creates a new name below dir for an existing file below dir.
func Hardlink(tb testing.TB, dir, existing, name string) {
	tb.Helper()
	if err := os.Link(filepath.Join(dir, filepath.FromSlash(existing)), filepath.Join(dir, filepath.FromSlash(name))); err != nil {
		tb.Fatalf("link %s: %v", name, err)
	}
}

// LogBuffer is a concurrency-safe sink for a slog logger.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write implements io.Writer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns everything logged so far.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// NewLogger returns a text logger at debug level that writes to a new
// LogBuffer.
func NewLogger() (*slog.Logger, *LogBuffer) {
	buf := &LogBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}
