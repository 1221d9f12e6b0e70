package platform

import (
	"io/fs"
	"time"
)

// Stat is the subset of lstat(2) data the crawler records for an entry.
type Stat struct {
	Mode  fs.FileMode
	Size  int64
	UID   uint32
	GID   uint32
	Dev   uint64
	Rdev  uint64
	Ino   uint64
	Nlink uint64
	Atime time.Time
	Mtime time.Time
	Ctime time.Time
}
