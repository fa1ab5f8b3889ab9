package types

import "time"

// StackEntry is one visited directory on a session's stack.
type StackEntry struct {
	ID        int64
	SessionID string
	Path      string
	Timestamp time.Time
}
