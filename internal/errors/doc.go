// Package errors provides error handling conventions for groundwork.
//
// This package defines the sentinel errors of the configuration pipeline,
// an ExitError type for CLI exit code handling, exit code constants
// following standard Unix conventions, and re-exports of
// github.com/cockroachdb/errors for wrapping.
//
// # Sentinel Errors
//
// Every failure of the merge engine, the file loader and the settings layer
// can be classified with [errors.Is]:
//
//	if errors.Is(err, gwerrors.ErrRecursionExceeded) {
//	    // source nested too deeply
//	}
//
// Filesystem failures are marked rather than replaced, so both the sentinel
// and the underlying [io/fs] error match:
//
//	errors.Is(err, gwerrors.ErrNotFound) // true
//	errors.Is(err, fs.ErrNotExist)       // true
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): User-related error (invalid input, configuration, etc.)
//   - ExitSystem (2): System-related error (I/O, permissions, etc.)
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional suggestion
// for CLI applications. It supports error unwrapping via [errors.Unwrap] and
// [errors.As]:
//
//	err := gwerrors.NewUserError(gwerrors.ErrInvalidConfig, "Check your config file")
//	var exitErr *gwerrors.ExitError
//	if errors.As(err, &exitErr) {
//	    if exitErr.Suggestion != "" {
//	        fmt.Println("Suggestion:", exitErr.Suggestion)
//	    }
//	    os.Exit(exitErr.Code)
//	}
package errors
