// Package registry is the persistent table of bookmarked directories.
//
// Each entry has a unique index, an optional unique alias and a path. The
// store owns those uniqueness rules: Add, SetIndex and SetAlias check them
// inside the same transaction that writes, so two concurrent processes can
// never both claim one index or alias. Indices that are not given explicitly
// are the smallest non-negative integer not in use.
//
// Aliases must not look like an index, since the resolver would always try
// them as an index first and the alias could never be reached.
package registry
