// Package types holds the records shared by the registry, the resolver, the
// session stack and the command layer.
//
// An Entry is one bookmarked directory: a unique index, an optional unique
// alias and an absolute path. A StackEntry is one row of a session's visited
// stack. A Reference is what the user typed to name an entry, already split
// into its numeric and textual readings.
package types
