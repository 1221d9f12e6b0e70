// Package index stores a catalog as a FlatBuffers snapshot.
//
// A snapshot keeps entries sorted by path, so it can be queried with
// O(log n) lookups and prefix scans without decoding the whole file. The
// inventory command writes one with --index; a later run can load it to
// compare against a fresh crawl.
package index

import (
	"bytes"
	"errors"
	"fmt"
	"iter"
	"sort"
	"strings"
	"time"

	flatbuffers "github.com/google/flatbuffers/go"

	"github.com/meigma/inventory"
	"github.com/meigma/inventory/internal/fb"
	"github.com/meigma/inventory/internal/platform"
)

// Version is the snapshot layout written by Build.
const Version = 1

// ErrVersion is returned by Load for a snapshot written with an unknown
// layout.
var ErrVersion = errors.New("index: unsupported version")

// Build encodes every entry of cat along with the digest algorithm that
// produced the entry hashes.
func Build(cat *inventory.Catalog, hashAlgorithm string) []byte {
	builder := flatbuffers.NewBuilder(1024)

	offsets := make([]flatbuffers.UOffsetT, 0, cat.Len())
	for e := range cat.All() {
		offsets = append(offsets, buildEntry(builder, &e))
	}

	fb.IndexStartEntriesVector(builder, len(offsets))
	for i := len(offsets) - 1; i >= 0; i-- {
		builder.PrependUOffsetT(offsets[i])
	}
	entriesOffset := builder.EndVector(len(offsets))
	algOffset := builder.CreateString(hashAlgorithm)

	fb.IndexStart(builder)
	fb.IndexAddVersion(builder, Version)
	fb.IndexAddHashAlgorithm(builder, algOffset)
	fb.IndexAddEntries(builder, entriesOffset)
	builder.Finish(fb.IndexEnd(builder))

	return builder.FinishedBytes()
}

func buildEntry(builder *flatbuffers.Builder, e *inventory.Entry) flatbuffers.UOffsetT {
	pathOffset := builder.CreateString(e.Path)
	userOffset := builder.CreateString(e.User)
	groupOffset := builder.CreateString(e.Group)
	var targetOffset, hashOffset flatbuffers.UOffsetT
	if e.Target != "" {
		targetOffset = builder.CreateString(e.Target)
	}
	if e.Hash != "" {
		hashOffset = builder.CreateString(e.Hash)
	}

	fb.EntryStart(builder)
	fb.EntryAddPath(builder, pathOffset)
	if targetOffset != 0 {
		fb.EntryAddTarget(builder, targetOffset)
	}
	fb.EntryAddHardlink(builder, e.Hardlink)
	fb.EntryAddMode(builder, platform.ToUnixMode(e.Mode))
	fb.EntryAddUid(builder, e.UID)
	fb.EntryAddGid(builder, e.GID)
	fb.EntryAddUser(builder, userOffset)
	fb.EntryAddGroup(builder, groupOffset)
	fb.EntryAddSize(builder, e.Size)
	fb.EntryAddDev(builder, e.Dev)
	fb.EntryAddRdev(builder, e.Rdev)
	fb.EntryAddIno(builder, e.Ino)
	fb.EntryAddNlink(builder, e.Nlink)
	fb.EntryAddAtimeNs(builder, unixNano(e.Atime))
	fb.EntryAddMtimeNs(builder, unixNano(e.Mtime))
	fb.EntryAddCtimeNs(builder, unixNano(e.Ctime))
	if hashOffset != 0 {
		fb.EntryAddHash(builder, hashOffset)
	}
	return fb.EntryEnd(builder)
}

// Index provides read access to a snapshot.
//
// Index is backed by FlatBuffers. Entries are sorted by path, enabling
// efficient prefix scans for directory operations.
type Index struct {
	data []byte
	root *fb.Index
}

// Load parses a snapshot produced by Build.
//
// The provided data is retained by the index; callers must not modify it
// after calling Load.
func Load(data []byte) (idx *Index, err error) {
	defer func() {
		if r := recover(); r != nil {
			idx = nil
			err = fmt.Errorf("index: failed to parse snapshot: %v", r)
		}
	}()
	if len(data) == 0 {
		return nil, errors.New("index: empty snapshot data")
	}

	root := fb.GetRootAsIndex(data, 0)
	if v := root.Version(); v != Version {
		return nil, fmt.Errorf("%w %d", ErrVersion, v)
	}
	// Touch the entries vector so a truncated buffer fails here rather
	// than on first access.
	_ = root.EntriesLength()

	return &Index{
		data: data,
		root: root,
	}, nil
}

// Version returns the layout version of the snapshot.
func (idx *Index) Version() uint32 {
	return idx.root.Version()
}

// HashAlgorithm returns the digest algorithm recorded for entry hashes.
func (idx *Index) HashAlgorithm() string {
	return string(idx.root.HashAlgorithm())
}

// Len returns the number of entries in the snapshot.
func (idx *Index) Len() int {
	return idx.root.EntriesLength()
}

// Lookup returns the entry for path.
func (idx *Index) Lookup(path string) (inventory.Entry, bool) {
	key := []byte(path)
	n := idx.Len()
	i := idx.search(key)
	if i >= n {
		return inventory.Entry{}, false
	}
	var fbEntry fb.Entry
	if !idx.root.Entries(&fbEntry, i) || !bytes.Equal(fbEntry.Path(), key) {
		return inventory.Entry{}, false
	}
	return entryFromFlatBuffers(&fbEntry), true
}

// Entries returns an iterator over all entries in path order.
func (idx *Index) Entries() iter.Seq[inventory.Entry] {
	return func(yield func(inventory.Entry) bool) {
		var fbEntry fb.Entry
		for i := range idx.Len() {
			if !idx.root.Entries(&fbEntry, i) {
				return
			}
			if !yield(entryFromFlatBuffers(&fbEntry)) {
				return
			}
		}
	}
}

// EntriesWithPrefix returns an iterator over entries whose path starts
// with prefix, in path order.
func (idx *Index) EntriesWithPrefix(prefix string) iter.Seq[inventory.Entry] {
	return func(yield func(inventory.Entry) bool) {
		prefixBytes := []byte(prefix)
		n := idx.Len()

		var fbEntry fb.Entry
		for i := idx.search(prefixBytes); i < n; i++ {
			if !idx.root.Entries(&fbEntry, i) {
				return
			}
			if !bytes.HasPrefix(fbEntry.Path(), prefixBytes) {
				return
			}
			if !yield(entryFromFlatBuffers(&fbEntry)) {
				return
			}
		}
	}
}

// Subtree returns an iterator over dir itself and every entry below it, in
// path order. Siblings that merely share a name prefix are not included.
// An empty dir yields every entry.
func (idx *Index) Subtree(dir string) iter.Seq[inventory.Entry] {
	if dir == "" {
		return idx.Entries()
	}
	if trimmed := strings.TrimRight(dir, "/"); trimmed != "" {
		dir = trimmed
	} else {
		dir = "/"
	}
	prefix := dir
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return func(yield func(inventory.Entry) bool) {
		if e, ok := idx.Lookup(dir); ok {
			if !yield(e) {
				return
			}
		}
		for e := range idx.EntriesWithPrefix(prefix) {
			if e.Path == dir {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Catalog decodes the snapshot into a new catalog.
func (idx *Index) Catalog() *inventory.Catalog {
	cat := inventory.NewCatalog()
	for e := range idx.Entries() {
		cat.Insert(e)
	}
	return cat
}

// search returns the position of the first entry whose path is not less
// than key.
func (idx *Index) search(key []byte) int {
	return sort.Search(idx.Len(), func(i int) bool {
		var fbEntry fb.Entry
		if !idx.root.Entries(&fbEntry, i) {
			return false
		}
		return bytes.Compare(fbEntry.Path(), key) >= 0
	})
}

func entryFromFlatBuffers(e *fb.Entry) inventory.Entry {
	return inventory.Entry{
		Path:     string(e.Path()),
		Target:   string(e.Target()),
		Hardlink: e.Hardlink(),
		UID:      e.Uid(),
		GID:      e.Gid(),
		User:     string(e.User()),
		Group:    string(e.Group()),
		Atime:    fromUnixNano(e.AtimeNs()),
		Mtime:    fromUnixNano(e.MtimeNs()),
		Ctime:    fromUnixNano(e.CtimeNs()),
		Mode:     platform.FromUnixMode(e.Mode()),
		Size:     e.Size(),
		Dev:      e.Dev(),
		Rdev:     e.Rdev(),
		Ino:      e.Ino(),
		Nlink:    e.Nlink(),
		Hash:     string(e.Hash()),
	}
}

func unixNano(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnixNano(ns int64) time.Time {
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
