package inventory

import (
	"context"
	"fmt"
)

// Prepend records every directory above path, from the top of the tree
// down, so a catalog for a partial tree still holds what is needed to
// recreate it. path itself is not recorded.
//
// A component that cannot be stat'ed fails with ErrAncestorStat. A component
// that is a symbolic link is recorded and then fails with ErrSymlinkAncestor:
// its target may lie outside the backup, so the root is abandoned rather
// than resolved.
func (c *Crawler) Prepend(ctx context.Context, cat *Catalog, path string) error {
	path, err := cleanPath(path)
	if err != nil {
		return err
	}
	return c.prepend(ctx, cat, path)
}

func (c *Crawler) prepend(ctx context.Context, cat *Catalog, path string) error {
	for _, dir := range ancestors(path) {
		if err := ctx.Err(); err != nil {
			return err
		}
		st, err := c.lstat(dir)
		if err != nil {
			return fmt.Errorf("%w %s: %w", ErrAncestorStat, dir, err)
		}

		e := c.newEntry(dir, st)
		if e.IsSymlink() {
			target, err := c.readlink(dir)
			if err != nil {
				return fmt.Errorf("%w %s: %w", ErrAncestorStat, dir, err)
			}
			e.Target = target
			c.insert(cat, e)
			return fmt.Errorf("%w: %s", ErrSymlinkAncestor, dir)
		}
		c.insert(cat, e)
	}
	return nil
}

// ancestors returns the proper prefixes of an absolute path that end
// before a separator: "/x/y/z" yields "/x" and "/x/y".
func ancestors(path string) []string {
	var dirs []string
	for i := 1; i < len(path); i++ {
		if path[i] == '/' {
			dirs = append(dirs, path[:i])
		}
	}
	return dirs
}
