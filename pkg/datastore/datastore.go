package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/logging"

	_ "modernc.org/sqlite"
)

// DefaultBusyTimeout is used when Options.BusyTimeout is zero.
const DefaultBusyTimeout = 5 * time.Second

// Table names
const (
	EntriesTable = "entries"
	StackTable   = "stack"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	"index" INTEGER PRIMARY KEY,
	alias   TEXT UNIQUE,
	path    TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS stack (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT    NOT NULL,
	path       TEXT    NOT NULL,
	timestamp  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_stack_session   ON stack(session_id, id);
CREATE INDEX IF NOT EXISTS idx_stack_timestamp ON stack(timestamp);
`

// Querier is the part of *sql.Tx the stores use.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Options configures Open.
type Options struct {
	Path        string
	BusyTimeout time.Duration
}

// DB is an open qcd database.
type DB struct {
	db     *sql.DB
	path   string
	logger zerolog.Logger
}

// Open opens the database at opts.Path, creating the file, its directory
// and the schema when missing.
func Open(ctx context.Context, opts Options) (*DB, error) {
	logger := logging.GetLogger("datastore")

	if opts.Path == "" {
		return nil, errors.New(errors.ErrInvalidInput, "database path cannot be empty")
	}
	timeout := opts.BusyTimeout
	if timeout <= 0 {
		timeout = DefaultBusyTimeout
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorageCorrupt, "could not create database directory for %s", opts.Path)
	}

	db, err := sql.Open("sqlite", dsn(opts.Path, timeout))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStorageCorrupt, "could not open database %s", opts.Path)
	}
	// One connection: every statement of an operation runs on the
	// transaction that holds the lock.
	db.SetMaxOpenConns(1)

	d := &DB{db: db, path: opts.Path, logger: logger}
	if err := d.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug().
		Str("path", opts.Path).
		Dur("busyTimeout", timeout).
		Msg("Database opened")
	return d, nil
}

func dsn(path string, busyTimeout time.Duration) string {
	return fmt.Sprintf("%s?_pragma=busy_timeout(%d)&_txlock=immediate", path, busyTimeout.Milliseconds())
}

func (d *DB) migrate(ctx context.Context) error {
	return d.WithTx(ctx, "migrate", func(q Querier) error {
		if _, err := q.ExecContext(ctx, schema); err != nil {
			return Classify(err, "could not create tables")
		}
		return nil
	})
}

// Path returns the database file location.
func (d *DB) Path() string {
	return d.path
}

// Close releases the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// WithTx runs fn inside one immediate transaction. The transaction commits
// when fn returns nil and rolls back otherwise. Errors from fn that are not
// already coded are classified like driver errors.
func (d *DB) WithTx(ctx context.Context, operation string, fn func(q Querier) error) (err error) {
	done := logging.LogOperationStart(d.logger, operation)
	defer done()

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return Classify(err, "could not start "+operation)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
				d.logger.Warn().Err(rbErr).Str("operation", operation).Msg("Rollback failed")
			}
		}
	}()

	if err = fn(tx); err != nil {
		if errors.GetErrorCode(err) == errors.ErrUnknown {
			err = Classify(err, operation+" failed")
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return Classify(err, "could not commit "+operation)
	}
	return nil
}
