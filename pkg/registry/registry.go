package registry

import (
	"context"
	"database/sql"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/qcd/pkg/datastore"
	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/logging"
	"github.com/arthur-debert/qcd/pkg/paths"
	"github.com/arthur-debert/qcd/pkg/resolver"
	"github.com/arthur-debert/qcd/pkg/types"
)

// Store is the PathStore backed by the entries table.
type Store struct {
	db     *datastore.DB
	logger zerolog.Logger
}

// New returns a store using db.
func New(db *datastore.DB) *Store {
	return &Store{db: db, logger: logging.GetLogger("registry")}
}

// Add stores path under index and alias. A nil index picks the smallest
// unused one. An empty alias means no alias.
func (s *Store) Add(ctx context.Context, path string, index *int, alias string) (types.Entry, error) {
	if err := paths.Validate(path); err != nil {
		return types.Entry{}, err
	}
	if err := ValidateAlias(alias); err != nil {
		return types.Entry{}, err
	}
	if index != nil {
		if err := validateIndex(*index); err != nil {
			return types.Entry{}, err
		}
	}

	entry := types.Entry{Alias: alias, Path: path}
	err := s.db.WithTx(ctx, "registry.add", func(q datastore.Querier) error {
		l := lookup{q: q}

		if index != nil {
			if _, taken, err := l.ByIndex(ctx, *index); err != nil {
				return err
			} else if taken {
				return duplicateIndex(*index)
			}
			entry.Index = *index
		} else {
			next, err := l.smallestUnused(ctx)
			if err != nil {
				return err
			}
			entry.Index = next
		}

		if alias != "" {
			if _, taken, err := l.ByAlias(ctx, alias); err != nil {
				return err
			} else if taken {
				return duplicateAlias(alias)
			}
		}

		_, err := q.ExecContext(ctx,
			`INSERT INTO entries ("index", alias, path) VALUES (?, ?, ?)`,
			entry.Index, nullable(alias), path)
		return datastore.Classify(err, "could not insert entry")
	})
	if err != nil {
		return types.Entry{}, err
	}

	s.logger.Info().
		Int("index", entry.Index).
		Str("alias", entry.Alias).
		Str("path", entry.Path).
		Msg("Entry added")
	return entry, nil
}

// Remove deletes the entry whose index or alias is exactly reference.
func (s *Store) Remove(ctx context.Context, reference string) (types.Entry, error) {
	var removed types.Entry
	err := s.db.WithTx(ctx, "registry.remove", func(q datastore.Querier) error {
		entry, err := resolver.ResolveExact(ctx, lookup{q: q}, reference)
		if err != nil {
			return err
		}
		if _, err := q.ExecContext(ctx, `DELETE FROM entries WHERE "index" = ?`, entry.Index); err != nil {
			return datastore.Classify(err, "could not delete entry")
		}
		removed = entry
		return nil
	})
	if err != nil {
		return types.Entry{}, err
	}

	s.logger.Info().Int("index", removed.Index).Str("path", removed.Path).Msg("Entry removed")
	return removed, nil
}

// List returns every entry ordered by index.
func (s *Store) List(ctx context.Context) ([]types.Entry, error) {
	var entries []types.Entry
	err := s.db.WithTx(ctx, "registry.list", func(q datastore.Querier) error {
		var err error
		entries, err = queryEntries(ctx, q, `SELECT "index", alias, path FROM entries ORDER BY "index"`)
		return err
	})
	return entries, err
}

// FindByPath returns the lowest-indexed entry stored for exactly path.
func (s *Store) FindByPath(ctx context.Context, path string) (types.Entry, bool, error) {
	var (
		entry types.Entry
		found bool
	)
	err := s.db.WithTx(ctx, "registry.find_by_path", func(q datastore.Querier) error {
		var err error
		entry, found, err = queryEntry(ctx, q,
			`SELECT "index", alias, path FROM entries WHERE path = ? ORDER BY "index" LIMIT 1`, path)
		return err
	})
	return entry, found, err
}

// Resolve finds the entry named by reference, accepting alias prefixes.
func (s *Store) Resolve(ctx context.Context, reference string) (types.Entry, error) {
	var entry types.Entry
	err := s.db.WithTx(ctx, "registry.resolve", func(q datastore.Querier) error {
		var err error
		entry, err = resolver.Resolve(ctx, lookup{q: q}, reference)
		return err
	})
	return entry, err
}

// SetIndex moves the entry at oldIndex to newIndex.
func (s *Store) SetIndex(ctx context.Context, oldIndex, newIndex int) (types.Entry, error) {
	if err := validateIndex(newIndex); err != nil {
		return types.Entry{}, err
	}

	var entry types.Entry
	err := s.db.WithTx(ctx, "registry.set_index", func(q datastore.Querier) error {
		l := lookup{q: q}
		current, found, err := l.ByIndex(ctx, oldIndex)
		if err != nil {
			return err
		}
		if !found {
			return errors.Newf(errors.ErrNotFound, "no entry with index %d", oldIndex)
		}
		entry = current
		if oldIndex == newIndex {
			return nil
		}

		if _, taken, err := l.ByIndex(ctx, newIndex); err != nil {
			return err
		} else if taken {
			return duplicateIndex(newIndex)
		}

		if _, err := q.ExecContext(ctx, `UPDATE entries SET "index" = ? WHERE "index" = ?`, newIndex, oldIndex); err != nil {
			return datastore.Classify(err, "could not change index")
		}
		entry.Index = newIndex
		return nil
	})
	if err != nil {
		return types.Entry{}, err
	}

	s.logger.Info().Int("from", oldIndex).Int("to", newIndex).Msg("Entry index changed")
	return entry, nil
}

// SetAlias gives the entry at index a new alias. An empty alias clears it.
func (s *Store) SetAlias(ctx context.Context, index int, alias string) (types.Entry, error) {
	if err := ValidateAlias(alias); err != nil {
		return types.Entry{}, err
	}

	var entry types.Entry
	err := s.db.WithTx(ctx, "registry.set_alias", func(q datastore.Querier) error {
		l := lookup{q: q}
		current, found, err := l.ByIndex(ctx, index)
		if err != nil {
			return err
		}
		if !found {
			return errors.Newf(errors.ErrNotFound, "no entry with index %d", index)
		}
		entry = current
		if current.Alias == alias {
			return nil
		}

		if alias != "" {
			if _, taken, err := l.ByAlias(ctx, alias); err != nil {
				return err
			} else if taken {
				return duplicateAlias(alias)
			}
		}

		if _, err := q.ExecContext(ctx, `UPDATE entries SET alias = ? WHERE "index" = ?`, nullable(alias), index); err != nil {
			return datastore.Classify(err, "could not change alias")
		}
		entry.Alias = alias
		return nil
	})
	if err != nil {
		return types.Entry{}, err
	}

	s.logger.Info().Int("index", index).Str("alias", alias).Msg("Entry alias changed")
	return entry, nil
}

// ValidateAlias rejects aliases that could never be resolved. The empty
// string is accepted and means "no alias".
func ValidateAlias(alias string) error {
	if alias == "" {
		return nil
	}
	if !utf8.ValidString(alias) {
		return errors.New(errors.ErrInvalidAlias, "alias is not valid UTF-8")
	}
	if types.IsNumeric(alias) {
		return errors.Newf(errors.ErrInvalidAlias, "alias %q is a number and would be read as an index", alias).
			WithDetail(errors.DetailReference, alias)
	}
	return nil
}

func validateIndex(index int) error {
	if index < 0 || index > types.MaxIndex {
		return errors.Newf(errors.ErrInvalidInput, "index %d is out of range", index)
	}
	return nil
}

func duplicateIndex(index int) error {
	return errors.Newf(errors.ErrDuplicateIndex, "index %d is already in use", index)
}

func duplicateAlias(alias string) error {
	return errors.Newf(errors.ErrDuplicateAlias, "alias %q is already in use", alias).
		WithDetail(errors.DetailReference, alias)
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
