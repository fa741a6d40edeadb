package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrVersionTooLow indicates the version field is below the minimum.
	ErrVersionTooLow = errors.New("version must be >= 1")

	// ErrOutOfRange indicates a numeric value outside its allowed range.
	ErrOutOfRange = errors.New("value out of range")

	// ErrInvalidChoice indicates a value that is not one of the allowed options.
	ErrInvalidChoice = errors.New("invalid choice")

	// ErrEmpty indicates a required value that is empty.
	ErrEmpty = errors.New("value must not be empty")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")
)

// MaxVerbose is the highest accepted general.verbose level.
const MaxVerbose = 4

var (
	logLevels  = []string{"trace", "debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Validate checks a Settings for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(s *Settings) []error {
	if s == nil {
		return []error{errors.New("settings are nil")}
	}

	var errs []error
	add := func(field string, value any, err error) {
		errs = append(errs, &FieldError{Field: field, Value: value, Err: err})
	}

	if s.Version < 1 {
		add("version", s.Version, ErrVersionTooLow)
	}
	if strings.TrimSpace(s.Name) == "" {
		add("name", s.Name, ErrEmpty)
	}
	if s.Port < 1 || s.Port > 65535 {
		add("port", s.Port, errors.Wrap(ErrOutOfRange, "want 1..65535"))
	}
	if s.Timeout <= 0 {
		add("timeout", s.Timeout, errors.Wrap(ErrOutOfRange, "want a positive duration"))
	}
	for i, tag := range s.Tags {
		if strings.TrimSpace(tag) == "" {
			add(fmt.Sprintf("tags[%d]", i), tag, ErrEmpty)
		}
	}
	if s.General.Verbose < 0 || s.General.Verbose > MaxVerbose {
		add("general.verbose", s.General.Verbose, errors.Wrapf(ErrOutOfRange, "want 0..%d", MaxVerbose))
	}
	if !slices.Contains(logLevels, strings.ToLower(s.Logging.Level)) {
		add("logging.level", s.Logging.Level, errors.Wrapf(ErrInvalidChoice, "want one of %s", strings.Join(logLevels, ", ")))
	}
	if !slices.Contains(logFormats, strings.ToLower(s.Logging.Format)) {
		add("logging.format", s.Logging.Format, errors.Wrapf(ErrInvalidChoice, "want one of %s", strings.Join(logFormats, ", ")))
	}
	if err := validatePath(s.Logging.File); err != nil {
		add("logging.file", s.Logging.File, err)
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "unset")
	if path == "" {
		return nil
	}

	// Check for null bytes which are never valid in paths
	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError reports an invalid value for one setting.
type FieldError struct {
	Field string
	Value any
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v (got %v)", e.Field, e.Err, e.Value)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// FieldErrors returns every FieldError in err's tree, in order. It sees
// through wrapping and joined errors, so it works on the error returned by
// Build.
func FieldErrors(err error) []*FieldError {
	var out []*FieldError
	var walk func(error)
	walk = func(err error) {
		switch e := err.(type) {
		case nil:
		case *FieldError:
			out = append(out, e)
		case interface{ Unwrap() []error }:
			for _, inner := range e.Unwrap() {
				walk(inner)
			}
		case interface{ Unwrap() error }:
			walk(e.Unwrap())
		}
	}
	walk(err)
	return out
}
