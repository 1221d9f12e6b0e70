package platform

import "io/fs"

// POSIX file type and permission bits as stored in st_mode. They are
// spelled out here so the conversion works on every GOOS.
const (
	modeTypeMask = 0o170000
	modeSocket   = 0o140000
	modeSymlink  = 0o120000
	modeRegular  = 0o100000
	modeBlock    = 0o060000
	modeDir      = 0o040000
	modeChar     = 0o020000
	modeFIFO     = 0o010000
	modeSetuid   = 0o4000
	modeSetgid   = 0o2000
	modeSticky   = 0o1000
)

// FromUnixMode converts a raw st_mode value to an fs.FileMode.
func FromUnixMode(m uint32) fs.FileMode {
	mode := fs.FileMode(m & 0o777)
	switch m & modeTypeMask {
	case modeBlock:
		mode |= fs.ModeDevice
	case modeChar:
		mode |= fs.ModeDevice | fs.ModeCharDevice
	case modeDir:
		mode |= fs.ModeDir
	case modeFIFO:
		mode |= fs.ModeNamedPipe
	case modeSymlink:
		mode |= fs.ModeSymlink
	case modeSocket:
		mode |= fs.ModeSocket
	}
	if m&modeSetuid != 0 {
		mode |= fs.ModeSetuid
	}
	if m&modeSetgid != 0 {
		mode |= fs.ModeSetgid
	}
	if m&modeSticky != 0 {
		mode |= fs.ModeSticky
	}
	return mode
}

// ToUnixMode converts an fs.FileMode back to the st_mode layout used on the
// wire. Types that have no POSIX equivalent map to a regular file.
func ToUnixMode(mode fs.FileMode) uint32 {
	m := uint32(mode.Perm())
	switch {
	case mode&fs.ModeDir != 0:
		m |= modeDir
	case mode&fs.ModeSymlink != 0:
		m |= modeSymlink
	case mode&fs.ModeNamedPipe != 0:
		m |= modeFIFO
	case mode&fs.ModeSocket != 0:
		m |= modeSocket
	case mode&fs.ModeCharDevice != 0:
		m |= modeChar
	case mode&fs.ModeDevice != 0:
		m |= modeBlock
	default:
		m |= modeRegular
	}
	if mode&fs.ModeSetuid != 0 {
		m |= modeSetuid
	}
	if mode&fs.ModeSetgid != 0 {
		m |= modeSetgid
	}
	if mode&fs.ModeSticky != 0 {
		m |= modeSticky
	}
	return m
}

// IsSpecial reports whether mode describes a device, FIFO or socket.
func IsSpecial(mode fs.FileMode) bool {
	return mode&(fs.ModeDevice|fs.ModeCharDevice|fs.ModeNamedPipe|fs.ModeSocket) != 0
}
