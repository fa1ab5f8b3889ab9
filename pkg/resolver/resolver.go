// Package resolver turns the reference a user typed into exactly one entry.
//
// A reference is tried, in order, as:
//
//  1. an index, when it is a plain non-negative number and that index exists
//  2. an exact alias
//  3. a unique, case-sensitive alias prefix
//
// Exact matches always win over prefix matches, so an alias that is a prefix
// of another alias still resolves to itself. When several aliases share the
// prefix the result is ErrAmbiguousAlias carrying the sorted candidates.
package resolver

import (
	"context"
	"fmt"
	"sort"

	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/types"
)

// Lookup is the read access the resolver needs from the entry table.
type Lookup interface {
	ByIndex(ctx context.Context, index int) (types.Entry, bool, error)
	ByAlias(ctx context.Context, alias string) (types.Entry, bool, error)
	ByAliasPrefix(ctx context.Context, prefix string) ([]types.Entry, error)
}

// Resolve finds the entry named by reference, allowing abbreviated aliases.
func Resolve(ctx context.Context, l Lookup, reference string) (types.Entry, error) {
	entry, found, err := exact(ctx, l, reference)
	if err != nil || found {
		return entry, err
	}

	candidates, err := l.ByAliasPrefix(ctx, reference)
	if err != nil {
		return types.Entry{}, err
	}

	switch len(candidates) {
	case 0:
		return types.Entry{}, notFound(reference)
	case 1:
		return candidates[0], nil
	}

	aliases := make([]string, 0, len(candidates))
	for _, c := range candidates {
		aliases = append(aliases, c.Alias)
	}
	sort.Strings(aliases)

	return types.Entry{}, errors.Newf(errors.ErrAmbiguousAlias, "%q is ambiguous, it matches:", reference).
		WithDetail(errors.DetailReference, reference).
		WithDetail(errors.DetailCandidates, aliases)
}

// ResolveExact finds the entry whose index or alias is exactly reference.
// Prefixes are never expanded.
func ResolveExact(ctx context.Context, l Lookup, reference string) (types.Entry, error) {
	entry, found, err := exact(ctx, l, reference)
	if err != nil || found {
		return entry, err
	}
	return types.Entry{}, notFound(reference)
}

func exact(ctx context.Context, l Lookup, reference string) (types.Entry, bool, error) {
	if reference == "" {
		return types.Entry{}, false, errors.New(errors.ErrInvalidInput, "entry reference cannot be empty")
	}

	ref := types.ParseReference(reference)
	if ref.IsIndex {
		entry, found, err := l.ByIndex(ctx, ref.Index)
		if err != nil || found {
			return entry, found, err
		}
	}

	return l.ByAlias(ctx, reference)
}

func notFound(reference string) error {
	return errors.New(errors.ErrNotFound, fmt.Sprintf("no entry matches %q", reference)).
		WithDetail(errors.DetailReference, reference)
}
