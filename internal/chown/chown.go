// Package chown reads ownership override records.
//
// An override lets a backup made without privilege record the ownership the
// files should have on restore. The record for file name in directory dir is
// stored in dir/MarkerPrefix+name; the record for a directory d is stored
// inside it as d/MarkerPrefix. Each record holds a single line:
//
//	user:uid/group:gid
package chown

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// MarkerPrefix starts the name of every override record file.
const MarkerPrefix = "._rdup_."

// ErrMalformed is returned for a record that does not follow the
// user:uid/group:gid layout.
var ErrMalformed = errors.New("malformed ownership record")

// Record is an ownership override.
type Record struct {
	User  string
	UID   uint32
	Group string
	GID   uint32
}

// IsMarker reports whether name is an override record file.
func IsMarker(name string) bool {
	return strings.HasPrefix(name, MarkerPrefix)
}

// RecordPath returns where the override for name in dir is stored. An empty
// name selects the record for dir itself.
func RecordPath(dir, name string) string {
	return filepath.Join(dir, MarkerPrefix+name)
}

// Lookup reads the override for name in dir. It returns ok=false with a nil
// error when no record exists.
func Lookup(dir, name string) (Record, bool, error) {
	f, err := os.Open(RecordPath(dir, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Record{}, false, nil
		}
		return Record{}, false, err
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return Record{}, false, fmt.Errorf("%s: %w", f.Name(), err)
	}
	return rec, true, nil
}

// Parse reads a record from r.
func Parse(r io.Reader) (Record, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Record{}, err
	}
	line = strings.TrimSpace(line)

	userPart, groupPart, ok := strings.Cut(line, "/")
	if !ok {
		return Record{}, ErrMalformed
	}
	user, uid, err := parsePair(userPart)
	if err != nil {
		return Record{}, err
	}
	group, gid, err := parsePair(groupPart)
	if err != nil {
		return Record{}, err
	}
	return Record{User: user, UID: uid, Group: group, GID: gid}, nil
}

func parsePair(s string) (string, uint32, error) {
	name, id, ok := strings.Cut(s, ":")
	if !ok || name == "" {
		return "", 0, ErrMalformed
	}
	n, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return name, uint32(n), nil
}
