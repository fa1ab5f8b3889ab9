package datastore

import (
	"context"
	stderrors "errors"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/arthur-debert/qcd/pkg/errors"
)

// Classify wraps a driver error with the error code matching its cause.
// Lock contention becomes ErrStorageBusy, unreadable files become
// ErrStorageCorrupt and everything else ErrInternal.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if errors.GetErrorCode(err) != errors.ErrUnknown {
		return err
	}

	if stderrors.Is(err, context.DeadlineExceeded) || stderrors.Is(err, context.Canceled) {
		return errors.Wrap(err, errors.ErrStorageBusy, message)
	}

	var se *sqlite.Error
	if stderrors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return errors.Wrap(err, errors.ErrStorageBusy, "database is busy, another qcd process holds the lock")
		case sqlite3.SQLITE_NOTADB, sqlite3.SQLITE_CORRUPT, sqlite3.SQLITE_CANTOPEN,
			sqlite3.SQLITE_FULL, sqlite3.SQLITE_IOERR, sqlite3.SQLITE_READONLY, sqlite3.SQLITE_PERM:
			return errors.Wrap(err, errors.ErrStorageCorrupt, "database file is unusable")
		case sqlite3.SQLITE_CONSTRAINT:
			return errors.Wrap(err, errors.ErrInvalidInput, message)
		}
	}

	return errors.Wrap(err, errors.ErrInternal, message)
}
