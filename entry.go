package inventory

import (
	"io/fs"
	"time"
)

// LinkSeparator joins a link's path and target in the line stream. Its
// length is part of NameSize for links.
const LinkSeparator = " -> "

// Entry describes one filesystem object captured during a crawl.
type Entry struct {
	// Path is the absolute path of the object.
	Path string

	// Target is the symlink destination, or for a hardlink the path first
	// recorded for the same content. Empty for every other entry.
	Target string

	// Hardlink is true when this entry is a secondary name for content
	// already recorded under Target.
	Hardlink bool

	UID   uint32
	GID   uint32
	User  string
	Group string

	Atime time.Time
	Mtime time.Time
	Ctime time.Time

	// Mode holds the type and permission bits.
	Mode fs.FileMode

	// Size is the content length reported by lstat.
	Size int64

	Dev   uint64
	Rdev  uint64
	Ino   uint64
	Nlink uint64

	// Hash is the hex digest of a regular file's content. It is empty when
	// the entry is not a regular file, is a hardlink, or could not be read,
	// and holds hasher.Unavailable when hashing is disabled.
	Hash string
}

// IsDir reports whether e describes a directory.
func (e Entry) IsDir() bool {
	return e.Mode.IsDir()
}

// IsSymlink reports whether e describes a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Mode&fs.ModeSymlink != 0
}

// IsLink reports whether e carries a link target, either as a symlink or as
// a hardlink.
func (e Entry) IsLink() bool {
	return e.IsSymlink() || e.Hardlink
}

// NameSize returns the encoded name length used by the line stream. For
// links it covers the path, LinkSeparator and the target so a reader can
// tell how many trailing bytes encode the target.
func (e Entry) NameSize() int {
	if e.IsLink() {
		return len(e.Path) + len(LinkSeparator) + len(e.Target)
	}
	return len(e.Path)
}

// WireSize returns the size field written to the line stream: the content
// length for ordinary entries, and the bare path length for links.
func (e Entry) WireSize() int64 {
	if e.IsLink() {
		return int64(len(e.Path))
	}
	return e.Size
}
