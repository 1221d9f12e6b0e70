package inventory

import (
	"iter"
	"strings"

	"github.com/google/btree"
)

const catalogDegree = 32

// Catalog is an ordered set of entries keyed by path.
//
// Iteration always yields entries in ascending byte-wise path order, which
// places every directory before its descendants. A Catalog is not safe for
// concurrent use.
type Catalog struct {
	tree *btree.BTreeG[*Entry]
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{tree: btree.NewG(catalogDegree, lessPath)}
}

func lessPath(a, b *Entry) bool {
	return a.Path < b.Path
}

// Insert adds a copy of e. An existing entry with the same path is replaced
// and true is returned.
func (c *Catalog) Insert(e Entry) (replaced bool) {
	_, replaced = c.tree.ReplaceOrInsert(&e)
	return replaced
}

// Get returns the entry stored for path.
func (c *Catalog) Get(path string) (Entry, bool) {
	e, ok := c.tree.Get(&Entry{Path: path})
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Has reports whether an entry exists for path.
func (c *Catalog) Has(path string) bool {
	return c.tree.Has(&Entry{Path: path})
}

// Delete removes the entry for path and reports whether one existed.
func (c *Catalog) Delete(path string) bool {
	_, ok := c.tree.Delete(&Entry{Path: path})
	return ok
}

// DeleteUnder removes every entry strictly below dir and returns the
// removed entries in path order. dir itself is kept.
func (c *Catalog) DeleteUnder(dir string) []Entry {
	prefix := childPrefix(dir)
	var removed []Entry
	c.tree.AscendGreaterOrEqual(&Entry{Path: prefix}, func(e *Entry) bool {
		if !strings.HasPrefix(e.Path, prefix) {
			return false
		}
		removed = append(removed, *e)
		return true
	})
	for i := range removed {
		c.tree.Delete(&removed[i])
	}
	return removed
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return c.tree.Len()
}

// All returns an iterator over all entries in path order.
func (c *Catalog) All() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		c.tree.Ascend(func(e *Entry) bool {
			return yield(*e)
		})
	}
}

// Under returns an iterator over the entries strictly below dir in path
// order.
func (c *Catalog) Under(dir string) iter.Seq[Entry] {
	prefix := childPrefix(dir)
	return func(yield func(Entry) bool) {
		c.tree.AscendGreaterOrEqual(&Entry{Path: prefix}, func(e *Entry) bool {
			if !strings.HasPrefix(e.Path, prefix) {
				return false
			}
			return yield(*e)
		})
	}
}

// Paths returns every path in order.
func (c *Catalog) Paths() []string {
	paths := make([]string, 0, c.Len())
	for e := range c.All() {
		paths = append(paths, e.Path)
	}
	return paths
}

// Merge inserts every entry of other into c, replacing entries that share a
// path.
func (c *Catalog) Merge(other *Catalog) {
	for e := range other.All() {
		c.Insert(e)
	}
}

// update rewrites the stored entry for path in place.
func (c *Catalog) update(path string, fn func(*Entry)) bool {
	e, ok := c.tree.Get(&Entry{Path: path})
	if !ok {
		return false
	}
	fn(e)
	return true
}

func childPrefix(dir string) string {
	if strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}
