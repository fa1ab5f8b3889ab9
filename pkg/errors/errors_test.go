// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, codes and exit code mapping

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/qcd/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "entry not found",
			wantStr: "[NOT_FOUND] entry not found",
		},
		{
			name:    "empty_stack_error",
			code:    errors.ErrEmptyStack,
			message: "nothing on stack",
			wantStr: "[EMPTY_STACK] nothing on stack",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrDuplicateIndex, "index %d already exists", 4)
	if err.Message != "index 4 already exists" {
		t.Errorf("Newf() message = %q", err.Message)
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("database is locked")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrStorageBusy, "storage busy")

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[STORAGE_BUSY] storage busy: database is locked"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}

		if !stderrors.Is(err, baseErr) {
			t.Error("wrapped error should be reachable through errors.Is")
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		if err := errors.Wrap(nil, errors.ErrInternal, "internal error"); err != nil {
			t.Error("Wrap(nil) should return nil")
		}
		if err := errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"); err != nil {
			t.Error("Wrapf(nil) should return nil")
		}
	})
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrNotFound, "error 1")
	err2 := errors.New(errors.ErrNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	if !stderrors.Is(err1, err2) {
		t.Error("errors.Is() should match on code")
	}
	if stderrors.Is(err1, err3) {
		t.Error("errors.Is() should not match different codes")
	}
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrAmbiguousAlias, "ambiguous"),
			code:     errors.ErrAmbiguousAlias,
			expected: true,
		},
		{
			name:     "fmt_wrapped",
			err:      fmt.Errorf("resolve: %w", errors.New(errors.ErrNotFound, "missing")),
			code:     errors.ErrNotFound,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestCandidates(t *testing.T) {
	err := errors.New(errors.ErrAmbiguousAlias, "ambiguous").
		WithDetail(errors.DetailCandidates, []string{"people", "pets"})

	got := errors.Candidates(fmt.Errorf("wrapped: %w", err))
	if len(got) != 2 || got[0] != "people" || got[1] != "pets" {
		t.Errorf("Candidates() = %v", got)
	}

	if errors.Candidates(stderrors.New("plain")) != nil {
		t.Error("Candidates() of a plain error should be nil")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, errors.ExitNavigate},
		{"invalid_path", errors.New(errors.ErrInvalidPath, "x"), errors.ExitInvalidPath},
		{"duplicate_index", errors.New(errors.ErrDuplicateIndex, "x"), errors.ExitDuplicateIndex},
		{"duplicate_alias", errors.New(errors.ErrDuplicateAlias, "x"), errors.ExitDuplicateAlias},
		{"not_found", errors.New(errors.ErrNotFound, "x"), errors.ExitNotFound},
		{"ambiguous", errors.New(errors.ErrAmbiguousAlias, "x"), errors.ExitAmbiguousAlias},
		{"empty_stack", errors.New(errors.ErrEmptyStack, "x"), errors.ExitEmptyStack},
		{"busy", errors.New(errors.ErrStorageBusy, "x"), errors.ExitStorageBusy},
		{"corrupt", errors.New(errors.ErrStorageCorrupt, "x"), errors.ExitStorageCorrupt},
		{"plain", stderrors.New("boom"), errors.ExitInternal},
	}

	seen := map[int]string{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode() = %d, want %d", got, tt.want)
			}
		})
		if tt.err != nil && tt.want != errors.ExitInternal {
			if other, dup := seen[tt.want]; dup {
				t.Errorf("exit code %d shared by %s and %s", tt.want, other, tt.name)
			}
			seen[tt.want] = tt.name
		}
	}
}

func TestIsFatal(t *testing.T) {
	if !errors.IsFatal(errors.New(errors.ErrStorageCorrupt, "x")) {
		t.Error("corrupt storage should be fatal")
	}
	if errors.IsFatal(errors.New(errors.ErrEmptyStack, "x")) {
		t.Error("empty stack should not be fatal")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", stderrors.New("plain"), "plain"},
		{"coded", errors.New(errors.ErrNotFound, "no entry"), "no entry"},
		{"driver cause", errors.Wrap(stderrors.New("database is locked"), errors.ErrStorageBusy, "could not pop"), "could not pop: database is locked"},
		{"nested", errors.Wrap(errors.New(errors.ErrInvalidPath, "not absolute"), errors.ErrInvalidInput, "bad argument"), "bad argument: not absolute"},
		{"fmt wrapped", fmt.Errorf("context: %w", errors.New(errors.ErrEmptyStack, "stack is empty")), "stack is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}
