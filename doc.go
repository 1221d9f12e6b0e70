// Package inventory walks filesystem trees and records every object it
// finds in an ordered catalog, the input a backup tool diffs against its
// previous run.
//
// A [Catalog] holds one [Entry] per path and always iterates in byte-wise
// path order, so every directory is listed before anything inside it. A
// [Crawler] fills a catalog from one or more roots:
//
//   - Regular files get a content digest (see [WithHashAlgorithm]).
//   - Symbolic links carry their target.
//   - Further names of a hardlinked inode are recorded as links to the first
//     name seen, without a digest.
//   - Directories, devices, FIFOs and sockets carry metadata only.
//
// # Quick Start
//
// Crawl a root together with the directories above it:
//
//	c := inventory.NewCrawler(
//	    inventory.WithNoBackup(true),
//	    inventory.WithOneFilesystem(true),
//	)
//	cat := inventory.NewCatalog()
//	if err := c.Walk(ctx, cat, "/home/alice"); err != nil {
//	    return err
//	}
//	for e := range cat.All() {
//	    fmt.Println(e.Path, e.Hash)
//	}
//
// # Errors
//
// Only problems with the root itself are returned. Unreadable members,
// broken links and directories that cannot be entered are logged through
// the logger set with [WithLogger], counted in [Stats] and skipped.
//
// # Stop Files
//
// With [WithNoBackup] enabled a directory containing a file named
// ".nobackup" contributes only that file to the catalog: nothing recorded
// below it survives and none of its subdirectories are entered.
package inventory
