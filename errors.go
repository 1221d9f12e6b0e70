package inventory

import "errors"

var (
	// ErrOpenRoot is returned when the path handed to Crawl cannot be opened
	// as a directory and is not a readable non-directory either.
	ErrOpenRoot = errors.New("inventory: cannot enter root directory")

	// ErrSymlinkAncestor is returned by Prepend when a component above the
	// start path is a symbolic link. The symlink itself is still recorded.
	ErrSymlinkAncestor = errors.New("inventory: ancestor is a symbolic link")

	// ErrAncestorStat is returned by Prepend when a component above the start
	// path cannot be stat'ed.
	ErrAncestorStat = errors.New("inventory: cannot stat ancestor")
)
