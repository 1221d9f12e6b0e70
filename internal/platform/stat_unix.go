//go:build linux || darwin

package platform

import (
	"errors"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// ErrSymlink is returned when attempting to open a symbolic link.
var ErrSymlink = errors.New("symbolic links not supported")

// Lstat returns metadata for path without following a final symlink.
func Lstat(path string) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Stat{}, &os.PathError{Op: "lstat", Path: path, Err: err}
	}
	return fromSys(&st), nil
}

// Fstat returns metadata for an open file, typically a directory handle.
func Fstat(f *os.File) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil { //nolint:gosec // fd fits in int
		return Stat{}, &os.PathError{Op: "fstat", Path: f.Name(), Err: err}
	}
	return fromSys(&st), nil
}

// Readable reports whether the calling process may read path.
func Readable(path string) bool {
	return unix.Access(path, unix.R_OK) == nil
}

// OpenFileNoFollow opens a file read-only without following symlinks.
// Returns ErrSymlink if the path is a symbolic link.
func OpenFileNoFollow(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDONLY|unix.O_NOFOLLOW, 0)
	if err != nil {
		if errors.Is(err, unix.ELOOP) {
			return nil, ErrSymlink
		}
		return nil, err
	}
	return f, nil
}

//nolint:unconvert // field widths differ between GOOS/GOARCH pairs
func fromSys(st *unix.Stat_t) Stat {
	return Stat{
		Mode:  FromUnixMode(uint32(st.Mode)),
		Size:  int64(st.Size),
		UID:   st.Uid,
		GID:   st.Gid,
		Dev:   uint64(st.Dev),
		Rdev:  uint64(st.Rdev),
		Ino:   uint64(st.Ino),
		Nlink: uint64(st.Nlink),
		Atime: time.Unix(st.Atim.Unix()),
		Mtime: time.Unix(st.Mtim.Unix()),
		Ctime: time.Unix(st.Ctim.Unix()),
	}
}
