package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Re-exports of github.com/cockroachdb/errors so callers can import a single
// errors package for both the sentinels and stack-carrying wrappers.
var (
	New      = crdb.New
	Newf     = crdb.Newf
	Wrap     = crdb.Wrap
	Wrapf    = crdb.Wrapf
	Is       = crdb.Is
	As       = crdb.As
	Join     = crdb.Join
	WithHint = crdb.WithHint
)

// Hints returns every user-facing hint attached anywhere in err's chain.
func Hints(err error) []string {
	return crdb.GetAllHints(err)
}

// Mark tags err with sentinel so that errors.Is matches sentinel as well as
// everything already in err's chain. Unlike crdb.Mark the tag is visible to
// the standard library's errors.Is through an Is method.
func Mark(err, sentinel error) error {
	if err == nil {
		return nil
	}
	return &markedError{cause: err, sentinel: sentinel}
}

type markedError struct {
	cause    error
	sentinel error
}

func (e *markedError) Error() string { return e.cause.Error() }

func (e *markedError) Unwrap() error { return e.cause }

func (e *markedError) Is(target error) bool { return target == e.sentinel }
