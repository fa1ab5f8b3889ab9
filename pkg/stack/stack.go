// Package stack keeps the per-session history of visited directories.
//
// Each shell session owns an ordered list of paths; the last pushed path is
// the top. Pushing the path already on top does nothing. Entries older than
// the retention window are deleted from every session at the start of each
// operation, inside the operation's own transaction.
package stack

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/qcd/pkg/datastore"
	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/logging"
	"github.com/arthur-debert/qcd/pkg/paths"
	"github.com/arthur-debert/qcd/pkg/types"
)

// DefaultRetention is how long a stack entry survives.
const DefaultRetention = 21 * 24 * time.Hour

// Stack is the SessionStack backed by the stack table.
type Stack struct {
	db        *datastore.DB
	retention time.Duration
	now       func() time.Time
	logger    zerolog.Logger
}

// Option configures a Stack.
type Option func(*Stack)

// WithRetention overrides DefaultRetention.
func WithRetention(d time.Duration) Option {
	return func(s *Stack) {
		if d > 0 {
			s.retention = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Stack) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns a stack using db.
func New(db *datastore.DB, opts ...Option) *Stack {
	s := &Stack{
		db:        db,
		retention: DefaultRetention,
		now:       time.Now,
		logger:    logging.GetLogger("stack"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Push puts path on top of the session's stack unless it already is the top.
func (s *Stack) Push(ctx context.Context, session, path string) error {
	if err := validate(session, path); err != nil {
		return err
	}
	return s.inSession(ctx, "stack.push", func(q datastore.Querier, now time.Time) error {
		return s.push(ctx, q, session, path, now)
	})
}

// Pop removes the top of the session's stack and returns its path.
func (s *Stack) Pop(ctx context.Context, session string) (string, error) {
	return s.removeTop(ctx, "stack.pop", session)
}

// Drop discards the top of the session's stack. It differs from Pop only in
// what the caller does with the result.
func (s *Stack) Drop(ctx context.Context, session string) (string, error) {
	return s.removeTop(ctx, "stack.drop", session)
}

// Swap exchanges current and the top of the stack: the top T is removed,
// current is pushed and T is returned. Swapping twice restores the stack.
func (s *Stack) Swap(ctx context.Context, session, current string) (string, error) {
	if err := validate(session, current); err != nil {
		return "", err
	}

	var target string
	err := s.inSession(ctx, "stack.swap", func(q datastore.Querier, now time.Time) error {
		top, err := popTop(ctx, q, session)
		if err != nil {
			return err
		}
		target = top.Path
		return s.push(ctx, q, session, current, now)
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("target", target).Str("current", current).Msg("Swapped stack top")
	return target, nil
}

// Top returns the top entry without removing it.
func (s *Stack) Top(ctx context.Context, session string) (types.StackEntry, bool, error) {
	if err := validateSession(session); err != nil {
		return types.StackEntry{}, false, err
	}

	var (
		top   types.StackEntry
		found bool
	)
	err := s.inSession(ctx, "stack.top", func(q datastore.Querier, _ time.Time) error {
		var err error
		top, found, err = topOf(ctx, q, session)
		return err
	})
	return top, found, err
}

// List returns the session's entries from top to bottom.
func (s *Stack) List(ctx context.Context, session string) ([]types.StackEntry, error) {
	if err := validateSession(session); err != nil {
		return nil, err
	}

	var entries []types.StackEntry
	err := s.inSession(ctx, "stack.list", func(q datastore.Querier, _ time.Time) error {
		rows, err := q.QueryContext(ctx,
			`SELECT id, session_id, path, timestamp FROM stack WHERE session_id = ? ORDER BY id DESC`, session)
		if err != nil {
			return datastore.Classify(err, "could not read stack")
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			entry, err := scanEntry(rows)
			if err != nil {
				return err
			}
			entries = append(entries, entry)
		}
		return datastore.Classify(rows.Err(), "could not read stack")
	})
	return entries, err
}

// Prune deletes entries of every session whose timestamp is at or before
// now minus retention, and reports how many were deleted.
func (s *Stack) Prune(ctx context.Context, retention time.Duration, now time.Time) (int64, error) {
	var n int64
	err := s.db.WithTx(ctx, "stack.prune", func(q datastore.Querier) error {
		var err error
		n, err = prune(ctx, q, retention, now)
		return err
	})
	return n, err
}

func (s *Stack) removeTop(ctx context.Context, operation, session string) (string, error) {
	if err := validateSession(session); err != nil {
		return "", err
	}

	var path string
	err := s.inSession(ctx, operation, func(q datastore.Querier, _ time.Time) error {
		top, err := popTop(ctx, q, session)
		if err != nil {
			return err
		}
		path = top.Path
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Debug().Str("operation", operation).Str("path", path).Msg("Removed stack top")
	return path, nil
}

// inSession runs fn in one transaction after pruning expired entries.
func (s *Stack) inSession(ctx context.Context, operation string, fn func(q datastore.Querier, now time.Time) error) error {
	now := s.now()
	return s.db.WithTx(ctx, operation, func(q datastore.Querier) error {
		n, err := prune(ctx, q, s.retention, now)
		if err != nil {
			return err
		}
		if n > 0 {
			s.logger.Debug().Int64("count", n).Msg("Pruned expired stack entries")
		}
		return fn(q, now)
	})
}

func (s *Stack) push(ctx context.Context, q datastore.Querier, session, path string, now time.Time) error {
	top, found, err := topOf(ctx, q, session)
	if err != nil {
		return err
	}
	if found && top.Path == path {
		s.logger.Trace().Str("path", path).Msg("Path already on top, not pushing")
		return nil
	}

	_, err = q.ExecContext(ctx,
		`INSERT INTO stack (session_id, path, timestamp) VALUES (?, ?, ?)`,
		session, path, now.Unix())
	return datastore.Classify(err, "could not push path")
}

func prune(ctx context.Context, q datastore.Querier, retention time.Duration, now time.Time) (int64, error) {
	cutoff := now.Add(-retention).Unix()
	res, err := q.ExecContext(ctx, `DELETE FROM stack WHERE timestamp <= ?`, cutoff)
	if err != nil {
		return 0, datastore.Classify(err, "could not prune stack")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, datastore.Classify(err, "could not prune stack")
	}
	return n, nil
}

func popTop(ctx context.Context, q datastore.Querier, session string) (types.StackEntry, error) {
	top, found, err := topOf(ctx, q, session)
	if err != nil {
		return types.StackEntry{}, err
	}
	if !found {
		return types.StackEntry{}, errors.New(errors.ErrEmptyStack, "directory stack is empty")
	}
	if _, err := q.ExecContext(ctx, `DELETE FROM stack WHERE id = ?`, top.ID); err != nil {
		return types.StackEntry{}, datastore.Classify(err, "could not pop stack")
	}
	return top, nil
}

func topOf(ctx context.Context, q datastore.Querier, session string) (types.StackEntry, bool, error) {
	row := q.QueryRowContext(ctx,
		`SELECT id, session_id, path, timestamp FROM stack WHERE session_id = ? ORDER BY id DESC LIMIT 1`, session)
	entry, err := scanEntry(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return types.StackEntry{}, false, nil
	}
	if err != nil {
		return types.StackEntry{}, false, err
	}
	return entry, true, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (types.StackEntry, error) {
	var (
		entry types.StackEntry
		ts    int64
	)
	if err := sc.Scan(&entry.ID, &entry.SessionID, &entry.Path, &ts); err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return entry, err
		}
		return entry, datastore.Classify(err, "could not read stack entry")
	}
	entry.Timestamp = time.Unix(ts, 0)
	return entry, nil
}

func validate(session, path string) error {
	if err := validateSession(session); err != nil {
		return err
	}
	return paths.Validate(path)
}

func validateSession(session string) error {
	if session == "" {
		return errors.New(errors.ErrInvalidSession, "no session id, run the shell integration or set QCD_RS_SESSIONID")
	}
	return nil
}
