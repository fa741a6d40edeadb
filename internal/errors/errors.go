package errors

import (
	"fmt"
	"io/fs"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for CLI applications.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0
	// ExitUser indicates a user-related error (invalid input, configuration, etc.).
	ExitUser = 1
	// ExitSystem indicates a system-related error (I/O, permissions, etc.).
	ExitSystem = 2
)

// Sentinel errors for the configuration pipeline.
var (
	// ErrInvalidArgument indicates a non-mapping value was given where a mapping is required.
	ErrInvalidArgument = crdb.New("invalid argument")
	// ErrRecursionExceeded indicates a nested structure exceeded the configured depth bound.
	ErrRecursionExceeded = crdb.New("maximum recursion depth exceeded")
	// ErrNotFound indicates the requested file was not found.
	ErrNotFound = crdb.New("file not found")
	// ErrIsDirectory indicates a path refers to a directory where a file was expected.
	ErrIsDirectory = crdb.New("path is a directory")
	// ErrUnsupportedFormat indicates no parser is known for a config source.
	ErrUnsupportedFormat = crdb.New("unsupported config format")
	// ErrMalformed indicates a config document could not be parsed.
	ErrMalformed = crdb.New("malformed config document")
	// ErrInvalidConfig indicates configuration validation failed.
	ErrInvalidConfig = crdb.New("invalid configuration")
)

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error
	// Code is the exit code to return to the operating system.
	Code int
	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewExitError creates an ExitError with the given underlying error and exit code.
// If err is nil, the returned ExitError will have a nil Err field.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{
		Err:  err,
		Code: code,
	}
}

// NewExitErrorWithSuggestion creates an ExitError with a suggestion.
func NewExitErrorWithSuggestion(err error, code int, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       code,
		Suggestion: suggestion,
	}
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewConfigError creates an ExitError with ExitUser code and a standard suggestion.
func NewConfigError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: groundwork config validate <file>",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps err to a process exit code. An ExitError with a non-zero
// code decides for itself. Permission failures are system errors; anything
// else, including cobra's usage errors, is the user's.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) && exitErr.Code != ExitSuccess {
		return exitErr.Code
	}
	if crdb.Is(err, fs.ErrPermission) {
		return ExitSystem
	}
	return ExitUser
}

// SuggestionOf returns the suggestion of the outermost ExitError in err, or
// the empty string.
func SuggestionOf(err error) string {
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Suggestion
	}
	return ""
}
