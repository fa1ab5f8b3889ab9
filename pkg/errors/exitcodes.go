package errors

// Exit codes understood by the wrapping shell function. Only ExitNavigate
// makes the wrapper change directory; every other code makes it echo stdout.
const (
	ExitNavigate = 0
	ExitInfo     = 1
	// ExitSuccess is for output that is never a directory (--pid, --init,
	// help), so the wrapper echoes it and `set -e` shells are not tripped.
	ExitSuccess = 0

	ExitInvalidInput   = 2
	ExitInvalidPath    = 3
	ExitInvalidAlias   = 4
	ExitDuplicateIndex = 5
	ExitDuplicateAlias = 6
	ExitNotFound       = 7
	ExitAmbiguousAlias = 8
	ExitEmptyStack     = 9
	ExitInvalidSession = 10
	ExitStorageBusy    = 11
	ExitStorageCorrupt = 12
	ExitConfig         = 13
	ExitInternal       = 70
)

var exitCodes = map[ErrorCode]int{
	ErrInvalidInput:   ExitInvalidInput,
	ErrInvalidPath:    ExitInvalidPath,
	ErrInvalidAlias:   ExitInvalidAlias,
	ErrDuplicateIndex: ExitDuplicateIndex,
	ErrDuplicateAlias: ExitDuplicateAlias,
	ErrNotFound:       ExitNotFound,
	ErrAmbiguousAlias: ExitAmbiguousAlias,
	ErrEmptyStack:     ExitEmptyStack,
	ErrInvalidSession: ExitInvalidSession,
	ErrStorageBusy:    ExitStorageBusy,
	ErrStorageCorrupt: ExitStorageCorrupt,
	ErrConfigLoad:     ExitConfig,
	ErrConfigValid:    ExitConfig,
	ErrInternal:       ExitInternal,
	ErrUnknown:        ExitInternal,
}

// ExitCode maps an error to the process exit code. A nil error maps to
// ExitNavigate.
func ExitCode(err error) int {
	if err == nil {
		return ExitNavigate
	}
	if code, ok := exitCodes[GetErrorCode(err)]; ok {
		return code
	}
	return ExitInternal
}

// IsFatal reports whether the error is a condition the user cannot fix by
// changing the request (unreadable database, internal failures).
func IsFatal(err error) bool {
	switch GetErrorCode(err) {
	case ErrStorageCorrupt, ErrInternal, ErrUnknown:
		return true
	}
	return false
}
