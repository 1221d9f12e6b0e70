package identity

// Key identifies file content on a single machine.
type Key struct {
	Dev uint64
	Ino uint64
}

// Links maps a device+inode pair to the first path recorded for it.
type Links struct {
	seen map[Key]string
}

// NewLinks returns an empty hardlink map.
func NewLinks() *Links {
	return &Links{seen: make(map[Key]string)}
}

// Resolve registers path as the first occurrence of (dev, ino), or returns
// the previously registered path and true when the pair was already seen
// under another name. Seeing the registered path again is not a link.
func (l *Links) Resolve(dev, ino uint64, path string) (string, bool) {
	k := Key{Dev: dev, Ino: ino}
	if first, ok := l.seen[k]; ok {
		if first == path {
			return "", false
		}
		return first, true
	}
	l.seen[k] = path
	return "", false
}

// Forget drops the registration for (dev, ino) if it still points at path.
func (l *Links) Forget(dev, ino uint64, path string) {
	k := Key{Dev: dev, Ino: ino}
	if l.seen[k] == path {
		delete(l.seen, k)
	}
}

// Len returns the number of distinct identities recorded.
func (l *Links) Len() int {
	return len(l.seen)
}

// Reset clears every registration.
func (l *Links) Reset() {
	clear(l.seen)
}
