// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test reference resolution order, ambiguity and determinism

package resolver

import (
	"context"
	stderrors "errors"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/types"
)

// memLookup keeps entries in a slice, which is all the resolver needs.
type memLookup struct {
	entries []types.Entry
	err     error
}

func (m *memLookup) ByIndex(_ context.Context, index int) (types.Entry, bool, error) {
	if m.err != nil {
		return types.Entry{}, false, m.err
	}
	for _, e := range m.entries {
		if e.Index == index {
			return e, true, nil
		}
	}
	return types.Entry{}, false, nil
}

func (m *memLookup) ByAlias(_ context.Context, alias string) (types.Entry, bool, error) {
	for _, e := range m.entries {
		if e.HasAlias() && e.Alias == alias {
			return e, true, nil
		}
	}
	return types.Entry{}, false, nil
}

func (m *memLookup) ByAliasPrefix(_ context.Context, prefix string) ([]types.Entry, error) {
	var out []types.Entry
	for _, e := range m.entries {
		if e.HasAlias() && strings.HasPrefix(e.Alias, prefix) {
			out = append(out, e)
		}
	}
	return out, nil
}

func petsAndPeople() *memLookup {
	return &memLookup{entries: []types.Entry{
		{Index: 0, Alias: "people", Path: "/home/people"},
		{Index: 1, Alias: "pets", Path: "/home/pets"},
		{Index: 2, Alias: "petshop", Path: "/srv/petshop"},
		{Index: 7, Path: "/tmp"},
		{Index: 12, Alias: "src", Path: "/usr/src"},
	}}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name      string
		reference string
		wantPath  string
		wantCode  errors.ErrorCode
	}{
		{"index", "7", "/tmp", ""},
		{"index zero", "0", "/home/people", ""},
		{"exact alias beats longer alias", "pets", "/home/pets", ""},
		{"unique prefix", "peo", "/home/people", ""},
		{"unique prefix of longest alias", "petsh", "/srv/petshop", ""},
		{"single letter prefix", "s", "/usr/src", ""},
		{"ambiguous prefix", "pe", "", errors.ErrAmbiguousAlias},
		{"ambiguous prefix pet", "pet", "", errors.ErrAmbiguousAlias},
		{"no match", "docs", "", errors.ErrNotFound},
		{"missing index", "99", "", errors.ErrNotFound},
		{"prefix is case sensitive", "PE", "", errors.ErrNotFound},
		{"empty", "", "", errors.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, err := Resolve(context.Background(), petsAndPeople(), tt.reference)
			if tt.wantCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, tt.wantCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, entry.Path)
		})
	}
}

func TestResolve_PetsPeople(t *testing.T) {
	l := &memLookup{entries: []types.Entry{
		{Index: 0, Alias: "pets", Path: "/pets"},
		{Index: 1, Alias: "people", Path: "/people"},
	}}
	ctx := context.Background()

	_, err := Resolve(ctx, l, "pe")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrAmbiguousAlias))
	assert.Equal(t, []string{"people", "pets"}, errors.Candidates(err))
	assert.Equal(t, `"pe" is ambiguous, it matches:`, errors.Message(err))

	entry, err := Resolve(ctx, l, "pet")
	require.NoError(t, err)
	assert.Equal(t, "pets", entry.Alias)

	entry, err = Resolve(ctx, l, "pets")
	require.NoError(t, err)
	assert.Equal(t, "/pets", entry.Path)
}

func TestResolve_IndexBeforeAlias(t *testing.T) {
	// Numeric aliases cannot be stored, but a numeric reference that is not
	// an existing index still falls through to alias matching.
	l := &memLookup{entries: []types.Entry{
		{Index: 3, Alias: "2024-notes", Path: "/notes"},
		{Index: 2, Path: "/two"},
	}}

	entry, err := Resolve(context.Background(), l, "2")
	require.NoError(t, err)
	assert.Equal(t, "/two", entry.Path)

	entry, err = Resolve(context.Background(), l, "2024")
	require.NoError(t, err)
	assert.Equal(t, "/notes", entry.Path)
}

func TestResolve_Deterministic(t *testing.T) {
	l := petsAndPeople()
	for _, ref := range []string{"pe", "pets", "7", "nope", "s"} {
		firstEntry, firstErr := Resolve(context.Background(), l, ref)
		for i := 0; i < 5; i++ {
			// Shuffle storage order; results must not depend on it
			sort.Slice(l.entries, func(a, b int) bool { return (l.entries[a].Index+i)%5 < (l.entries[b].Index+i)%5 })
			entry, err := Resolve(context.Background(), l, ref)
			assert.Equal(t, firstEntry, entry)
			assert.Equal(t, errors.GetErrorCode(firstErr), errors.GetErrorCode(err))
			assert.Equal(t, errors.Candidates(firstErr), errors.Candidates(err))
		}
	}
}

func TestResolveExact(t *testing.T) {
	ctx := context.Background()
	l := petsAndPeople()

	entry, err := ResolveExact(ctx, l, "pets")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Index)

	entry, err = ResolveExact(ctx, l, "12")
	require.NoError(t, err)
	assert.Equal(t, "src", entry.Alias)

	_, err = ResolveExact(ctx, l, "peo")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotFound))

	_, err = ResolveExact(ctx, l, "")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestResolve_LookupErrorPropagates(t *testing.T) {
	boom := stderrors.New("disk on fire")
	_, err := Resolve(context.Background(), &memLookup{err: boom}, "3")
	assert.ErrorIs(t, err, boom)
}
