package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/arthur-debert/qcd/pkg/paths"
)

// ChangeDir resolves reference and returns its path to navigate to. Unless
// noPush is set, the current directory is pushed on the session stack
// first. Without a valid session the push is skipped silently.
func (s *Service) ChangeDir(ctx context.Context, reference string, noPush bool) (*Result, error) {
	entry, err := s.store.Resolve(ctx, reference)
	if err != nil {
		return nil, err
	}

	if !noPush && s.cfg.HasSession() {
		cwd, err := s.workDir()
		if err != nil {
			s.logger.Warn().Err(err).Msg("Not pushing current directory")
		} else if err := s.stack.Push(ctx, s.cfg.SessionID, cwd); err != nil {
			return nil, err
		}
	}

	s.logger.Info().Int("index", entry.Index).Str("path", entry.Path).Msg("Changing directory")
	return navigate(entry.Path), nil
}

// Echo prints the path reference resolves to, without touching the stack.
func (s *Service) Echo(ctx context.Context, reference string) (*Result, error) {
	entry, err := s.store.Resolve(ctx, reference)
	if err != nil {
		return nil, err
	}
	return info(entry.Path), nil
}

// Add stores path. Relative paths and ~ are resolved first.
func (s *Service) Add(ctx context.Context, path string, index *int, alias string) (*Result, error) {
	clean, err := paths.Normalize(path)
	if err != nil {
		return nil, err
	}

	entry, err := s.store.Add(ctx, clean, index, alias)
	if err != nil {
		return nil, err
	}
	return info(fmt.Sprintf("Path added with index %d", entry.Index)), nil
}

// AddCurrent stores the current directory.
func (s *Service) AddCurrent(ctx context.Context, index *int, alias string) (*Result, error) {
	cwd, err := s.workDir()
	if err != nil {
		return nil, err
	}
	return s.Add(ctx, cwd, index, alias)
}

// Remove deletes the entry whose index or alias is exactly reference.
func (s *Service) Remove(ctx context.Context, reference string) (*Result, error) {
	entry, err := s.store.Remove(ctx, reference)
	if err != nil {
		return nil, err
	}
	return info("Removed " + s.renderer.Entry(entry)), nil
}

// List renders every entry.
func (s *Service) List(ctx context.Context) (*Result, error) {
	entries, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	return info(s.renderer.Entries(entries)), nil
}

// Query prints the index stored for path, or -1 when there is none.
func (s *Service) Query(ctx context.Context, path string) (*Result, error) {
	clean, err := paths.Normalize(path)
	if err != nil {
		return nil, err
	}

	entry, found, err := s.store.FindByPath(ctx, clean)
	if err != nil {
		return nil, err
	}
	if !found {
		return info("-1"), nil
	}
	return info(strconv.Itoa(entry.Index)), nil
}

// SetAlias changes the alias of the entry at index.
func (s *Service) SetAlias(ctx context.Context, index int, alias string) (*Result, error) {
	entry, err := s.store.SetAlias(ctx, index, alias)
	if err != nil {
		return nil, err
	}
	return info(s.renderer.Entry(entry)), nil
}

// SetIndex moves the entry at oldIndex to newIndex.
func (s *Service) SetIndex(ctx context.Context, oldIndex, newIndex int) (*Result, error) {
	entry, err := s.store.SetIndex(ctx, oldIndex, newIndex)
	if err != nil {
		return nil, err
	}
	return info(s.renderer.Entry(entry)), nil
}
