// Package commands is the command dispatcher: it routes each CLI action to
// the registry, the resolver and the session stack, and turns the outcome
// into the text qcd prints plus whether the shell wrapper should change
// into it.
//
// Actions never print and never exit; cmd/qcd does both from the Result.
package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/qcd/pkg/config"
	"github.com/arthur-debert/qcd/pkg/datastore"
	"github.com/arthur-debert/qcd/pkg/errors"
	"github.com/arthur-debert/qcd/pkg/logging"
	"github.com/arthur-debert/qcd/pkg/output"
	"github.com/arthur-debert/qcd/pkg/paths"
	"github.com/arthur-debert/qcd/pkg/registry"
	"github.com/arthur-debert/qcd/pkg/stack"
)

// CommandType identifies one CLI action.
type CommandType string

const (
	// Navigation
	CommandChangeDir CommandType = "chdir"
	CommandEcho      CommandType = "echo"

	// Registry
	CommandAdd        CommandType = "add"
	CommandAddCurrent CommandType = "add-current"
	CommandRemove     CommandType = "remove"
	CommandList       CommandType = "list"
	CommandQuery      CommandType = "query"
	CommandSetAlias   CommandType = "set-alias"
	CommandSetIndex   CommandType = "set-index"

	// Stack
	CommandPush      CommandType = "push"
	CommandPop       CommandType = "pop"
	CommandSwap      CommandType = "swap"
	CommandDrop      CommandType = "drop"
	CommandListStack CommandType = "list-stack"
)

// Options carries the arguments of a command. Each command uses only the
// fields it needs.
type Options struct {
	// Reference names an entry by index, alias or alias prefix
	// (chdir, echo) or by exact index or alias (remove).
	Reference string

	// Path is the directory for add and query.
	Path string

	// Index and Alias are the -i and -s values of add, set-index and
	// set-alias. A nil Index means "pick one".
	Index *int
	Alias string

	// Target is the index of the entry set-alias and set-index modify.
	Target int

	// NoPush keeps chdir from pushing the current directory.
	NoPush bool
}

// Result is what a command produced.
type Result struct {
	// Output is printed on stdout. Empty prints nothing.
	Output string
	// Navigate is true when Output is a directory to change into.
	Navigate bool
}

// ExitCode is the process exit code for a successful result.
func (r *Result) ExitCode() int {
	if r.Navigate {
		return errors.ExitNavigate
	}
	return errors.ExitInfo
}

func navigate(path string) *Result { return &Result{Output: path, Navigate: true} }
func info(text string) *Result     { return &Result{Output: text} }

// Service runs commands against one open database.
type Service struct {
	cfg      *config.Config
	store    *registry.Store
	stack    *stack.Stack
	renderer *output.Renderer
	workDir  func() (string, error)
	now      func() time.Time
	logger   zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithWorkDir replaces paths.CurrentDir as the source of the current
// directory.
func WithWorkDir(fn func() (string, error)) Option {
	return func(s *Service) { s.workDir = fn }
}

// WithClock replaces time.Now for stack timestamps and ages.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires the registry and the stack to db.
func NewService(cfg *config.Config, db *datastore.DB, renderer *output.Renderer, opts ...Option) *Service {
	s := &Service{
		cfg:      cfg,
		store:    registry.New(db),
		renderer: renderer,
		workDir:  paths.CurrentDir,
		now:      time.Now,
		logger:   logging.GetLogger("commands"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stack = stack.New(db,
		stack.WithRetention(cfg.Stack.Retention),
		stack.WithClock(s.now))
	return s
}

// Dispatch runs cmd with opts.
func (s *Service) Dispatch(ctx context.Context, cmd CommandType, opts Options) (*Result, error) {
	s.logger.Debug().
		Str("command", string(cmd)).
		Str("reference", opts.Reference).
		Str("path", opts.Path).
		Bool("noPush", opts.NoPush).
		Msg("Dispatching command")

	switch cmd {
	case CommandChangeDir:
		return s.ChangeDir(ctx, opts.Reference, opts.NoPush)
	case CommandEcho:
		return s.Echo(ctx, opts.Reference)
	case CommandAdd:
		return s.Add(ctx, opts.Path, opts.Index, opts.Alias)
	case CommandAddCurrent:
		return s.AddCurrent(ctx, opts.Index, opts.Alias)
	case CommandRemove:
		return s.Remove(ctx, opts.Reference)
	case CommandList:
		return s.List(ctx)
	case CommandQuery:
		return s.Query(ctx, opts.Path)
	case CommandSetAlias:
		return s.SetAlias(ctx, opts.Target, opts.Alias)
	case CommandSetIndex:
		if opts.Index == nil {
			return nil, errors.New(errors.ErrInvalidInput, "set-index needs the new index")
		}
		return s.SetIndex(ctx, opts.Target, *opts.Index)
	case CommandPush:
		return s.Push(ctx)
	case CommandPop:
		return s.Pop(ctx)
	case CommandSwap:
		return s.Swap(ctx)
	case CommandDrop:
		return s.Drop(ctx)
	case CommandListStack:
		return s.ListStack(ctx)
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown command %q", cmd)
	}
}

// SessionID returns current when it is a usable session id, or a new random
// one for the shell wrapper to export.
func SessionID(current string, minLength int) string {
	if config.ValidSessionID(current, minLength) {
		return current
	}
	return uuid.NewString()
}
