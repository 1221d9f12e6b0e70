// Package identity resolves the identities a crawl needs to record: numeric
// owner and group ids to display names, and device+inode pairs to the first
// path seen at that identity for hardlink detection.
//
// Both caches are owned by a single crawl and are not safe for concurrent
// use.
package identity
