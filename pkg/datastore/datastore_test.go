// TEST TYPE: Integration Test
// DEPENDENCIES: sqlite database in a temp dir
// PURPOSE: Test opening, transactions and error classification

package datastore

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/qcd/pkg/errors"
)

func openTemp(t *testing.T, path string, timeout time.Duration) *DB {
	t.Helper()
	db, err := Open(context.Background(), Options{Path: path, BusyTimeout: timeout})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_CreatesFileAndSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "qcd.sqlite")
	db := openTemp(t, path, 0)

	assert.Equal(t, path, db.Path())
	_, err := os.Stat(path)
	require.NoError(t, err)

	ctx := context.Background()
	err = db.WithTx(ctx, "count", func(q Querier) error {
		var n int
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
			return err
		}
		assert.Equal(t, 0, n)
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM stack`).Scan(&n)
	})
	require.NoError(t, err)
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcd.sqlite")
	ctx := context.Background()

	first, err := Open(ctx, Options{Path: path})
	require.NoError(t, err)
	require.NoError(t, first.WithTx(ctx, "insert", func(q Querier) error {
		_, err := q.ExecContext(ctx, `INSERT INTO entries ("index", alias, path) VALUES (0, 'home', '/home')`)
		return err
	}))
	require.NoError(t, first.Close())

	second := openTemp(t, path, 0)
	var got string
	require.NoError(t, second.WithTx(ctx, "read", func(q Querier) error {
		return q.QueryRowContext(ctx, `SELECT path FROM entries WHERE alias = 'home'`).Scan(&got)
	}))
	assert.Equal(t, "/home", got)
}

func TestOpen_EmptyPath(t *testing.T) {
	_, err := Open(context.Background(), Options{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestOpen_GarbageFileIsCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcd.sqlite")
	garbage := make([]byte, 4096)
	for i := range garbage {
		garbage[i] = byte('x')
	}
	require.NoError(t, os.WriteFile(path, garbage, 0644))

	_, err := Open(context.Background(), Options{Path: path})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorageCorrupt), "got %v", err)
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := openTemp(t, filepath.Join(t.TempDir(), "qcd.sqlite"), 0)
	ctx := context.Background()

	sentinel := errors.New(errors.ErrNotFound, "nothing here")
	err := db.WithTx(ctx, "failing", func(q Querier) error {
		if _, err := q.ExecContext(ctx, `INSERT INTO entries ("index", path) VALUES (3, '/tmp')`); err != nil {
			return err
		}
		return sentinel
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	var n int
	require.NoError(t, db.WithTx(ctx, "count", func(q Querier) error {
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n)
	}))
	assert.Equal(t, 0, n)
}

func TestWithTx_ClassifiesUncodedErrors(t *testing.T) {
	db := openTemp(t, filepath.Join(t.TempDir(), "qcd.sqlite"), 0)
	ctx := context.Background()

	err := db.WithTx(ctx, "broken", func(q Querier) error {
		_, err := q.ExecContext(ctx, `SELECT * FROM no_such_table`)
		return err
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal), "got %v", err)

	err = db.WithTx(ctx, "plain", func(q Querier) error {
		return stderrors.New("boom")
	})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInternal))
}

func TestWithTx_BusyWhenLockHeld(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qcd.sqlite")
	holder := openTemp(t, path, time.Second)
	waiter := openTemp(t, path, 50*time.Millisecond)
	ctx := context.Background()

	locked := make(chan struct{})
	release := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- holder.WithTx(ctx, "hold", func(q Querier) error {
			close(locked)
			<-release
			return nil
		})
	}()
	<-locked

	err := waiter.WithTx(ctx, "contend", func(q Querier) error { return nil })
	close(release)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrStorageBusy), "got %v", err)
	require.NoError(t, <-done)

	// Once released the waiter proceeds
	require.NoError(t, waiter.WithTx(ctx, "after", func(q Querier) error { return nil }))
}

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify(nil, "x"))

	coded := errors.New(errors.ErrEmptyStack, "empty")
	assert.Same(t, coded, Classify(coded, "x"))

	assert.True(t, errors.IsErrorCode(Classify(context.DeadlineExceeded, "x"), errors.ErrStorageBusy))
	assert.True(t, errors.IsErrorCode(Classify(stderrors.New("other"), "x"), errors.ErrInternal))
}
