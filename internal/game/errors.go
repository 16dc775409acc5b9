package game

import (
	"errors"
	"fmt"
)

var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrSaveNotFound    = errors.New("save not found")
	ErrEntryNotFound   = errors.New("leaderboard entry not found")
	ErrSessionNotFound = errors.New("session not found")
)

// A RejectedError marks a request the caller can fix. These are not system
// failures - just invalid input.
type RejectedError struct {
	Message string
}

func (e *RejectedError) Error() string {
	return e.Message
}

// Reject builds a RejectedError from a format string.
func Reject(format string, args ...any) *RejectedError {
	return &RejectedError{Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is (or wraps) a RejectedError.
func IsRejection(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

// A TransientError marks a failure worth retrying, like a backend that is
// still starting up or briefly unreachable.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return e.Err.Error()
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a TransientError.
func Transient(err error) *TransientError {
	return &TransientError{Err: err}
}

// IsTransient reports whether err is (or wraps) a TransientError.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
