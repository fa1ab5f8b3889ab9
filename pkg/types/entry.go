package types

import (
	"strconv"
)

// MaxIndex is the largest index an entry can carry.
const MaxIndex = 1<<31 - 1

// Entry is a bookmarked directory.
type Entry struct {
	Index int
	Alias string
	Path  string
}

// HasAlias reports whether the entry was given an alias.
func (e Entry) HasAlias() bool {
	return e.Alias != ""
}

// Reference is a user supplied name for an entry: either an index or an
// alias (possibly abbreviated).
type Reference struct {
	Raw     string
	Index   int
	IsIndex bool
}

// ParseReference interprets s as an index when it is a plain non-negative
// decimal number and keeps the raw text for alias matching either way.
func ParseReference(s string) Reference {
	ref := Reference{Raw: s}
	if idx, ok := ParseIndex(s); ok {
		ref.Index = idx
		ref.IsIndex = true
	}
	return ref
}

// ParseIndex parses s as a non-negative index. Signs, spaces and values
// above MaxIndex are rejected.
func ParseIndex(s string) (int, bool) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// IsNumeric reports whether s is made only of ASCII digits, whatever its
// size. Such strings are not allowed as aliases.
func IsNumeric(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
