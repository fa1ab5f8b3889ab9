package commands

import (
	"context"

	"github.com/arthur-debert/qcd/pkg/errors"
)

func (s *Service) session() (string, error) {
	if !s.cfg.HasSession() {
		return "", errors.Newf(errors.ErrInvalidSession,
			"no valid session id in QCD_RS_SESSIONID (needs at least %d characters), load the shell integration with qcd --init",
			s.cfg.Stack.MinSessionIDLength)
	}
	return s.cfg.SessionID, nil
}

// Push puts the current directory on the session stack.
func (s *Service) Push(ctx context.Context) (*Result, error) {
	session, err := s.session()
	if err != nil {
		return nil, err
	}
	cwd, err := s.workDir()
	if err != nil {
		return nil, err
	}
	if err := s.stack.Push(ctx, session, cwd); err != nil {
		return nil, err
	}
	return info(""), nil
}

// Pop removes the top of the stack and navigates to it.
func (s *Service) Pop(ctx context.Context) (*Result, error) {
	session, err := s.session()
	if err != nil {
		return nil, err
	}
	path, err := s.stack.Pop(ctx, session)
	if err != nil {
		return nil, err
	}
	return navigate(path), nil
}

// Swap navigates to the top of the stack, leaving the current directory in
// its place.
func (s *Service) Swap(ctx context.Context) (*Result, error) {
	session, err := s.session()
	if err != nil {
		return nil, err
	}
	cwd, err := s.workDir()
	if err != nil {
		return nil, err
	}
	path, err := s.stack.Swap(ctx, session, cwd)
	if err != nil {
		return nil, err
	}
	return navigate(path), nil
}

// Drop discards the top of the stack.
func (s *Service) Drop(ctx context.Context) (*Result, error) {
	session, err := s.session()
	if err != nil {
		return nil, err
	}
	if _, err := s.stack.Drop(ctx, session); err != nil {
		return nil, err
	}
	return info(""), nil
}

// ListStack renders the session's stack, top first.
func (s *Service) ListStack(ctx context.Context) (*Result, error) {
	session, err := s.session()
	if err != nil {
		return nil, err
	}
	entries, err := s.stack.List(ctx, session)
	if err != nil {
		return nil, err
	}
	return info(s.renderer.Stack(entries, s.now())), nil
}
