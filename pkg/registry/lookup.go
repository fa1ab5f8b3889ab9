package registry

import (
	"context"
	"database/sql"
	stderrors "errors"

	"github.com/arthur-debert/qcd/pkg/datastore"
	"github.com/arthur-debert/qcd/pkg/types"
)

// lookup answers resolver queries inside an open transaction.
type lookup struct {
	q datastore.Querier
}

func (l lookup) ByIndex(ctx context.Context, index int) (types.Entry, bool, error) {
	return queryEntry(ctx, l.q, `SELECT "index", alias, path FROM entries WHERE "index" = ?`, index)
}

func (l lookup) ByAlias(ctx context.Context, alias string) (types.Entry, bool, error) {
	return queryEntry(ctx, l.q, `SELECT "index", alias, path FROM entries WHERE alias = ?`, alias)
}

// ByAliasPrefix matches the prefix literally and case-sensitively.
func (l lookup) ByAliasPrefix(ctx context.Context, prefix string) ([]types.Entry, error) {
	return queryEntries(ctx, l.q,
		`SELECT "index", alias, path FROM entries
		 WHERE alias IS NOT NULL AND substr(alias, 1, length(?)) = ?
		 ORDER BY alias`, prefix, prefix)
}

func (l lookup) smallestUnused(ctx context.Context) (int, error) {
	rows, err := l.q.QueryContext(ctx, `SELECT "index" FROM entries ORDER BY "index"`)
	if err != nil {
		return 0, datastore.Classify(err, "could not read indices")
	}
	defer func() { _ = rows.Close() }()

	next := 0
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return 0, datastore.Classify(err, "could not read indices")
		}
		if idx > next {
			break
		}
		if idx == next {
			next++
		}
	}
	if err := rows.Err(); err != nil {
		return 0, datastore.Classify(err, "could not read indices")
	}
	return next, nil
}

func queryEntry(ctx context.Context, q datastore.Querier, query string, args ...any) (types.Entry, bool, error) {
	var (
		entry types.Entry
		alias sql.NullString
	)
	err := q.QueryRowContext(ctx, query, args...).Scan(&entry.Index, &alias, &entry.Path)
	if stderrors.Is(err, sql.ErrNoRows) {
		return types.Entry{}, false, nil
	}
	if err != nil {
		return types.Entry{}, false, datastore.Classify(err, "could not read entry")
	}
	entry.Alias = alias.String
	return entry, true, nil
}

func queryEntries(ctx context.Context, q datastore.Querier, query string, args ...any) ([]types.Entry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, datastore.Classify(err, "could not read entries")
	}
	defer func() { _ = rows.Close() }()

	var entries []types.Entry
	for rows.Next() {
		var (
			entry types.Entry
			alias sql.NullString
		)
		if err := rows.Scan(&entry.Index, &alias, &entry.Path); err != nil {
			return nil, datastore.Classify(err, "could not read entry")
		}
		entry.Alias = alias.String
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, datastore.Classify(err, "could not read entries")
	}
	return entries, nil
}
