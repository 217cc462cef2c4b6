package gateway

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthenticated is returned when an operation needs an identity and
	// none was supplied.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrNotFound is returned when a single-row lookup matched nothing.
	ErrNotFound = errors.New("not found")
	// ErrOwnerConflict is returned when a create names an owner other than
	// the signed-in user.
	ErrOwnerConflict = errors.New("owner does not match signed-in user")
	// ErrInvalid wraps input validation failures.
	ErrInvalid = errors.New("invalid input")
	// ErrRemote matches every *RemoteError.
	ErrRemote = errors.New("remote operation failed")
)

// RemoteError is a failure reported by the backend.
type RemoteError struct {
	Op      string
	Code    string
	Message string
	Err     error
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Err }

func (e *RemoteError) Is(target error) bool { return target == ErrRemote }

// classify leaves ErrNotFound and *RemoteError as they are and wraps
// anything else in a RemoteError for op. Context wrapped around a
// RemoteError is kept.
func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	var re *RemoteError
	if errors.As(err, &re) {
		if re.Op == "" {
			re.Op = op
		}
		if err != error(re) {
			return fmt.Errorf("%s: %w", op, err)
		}
		return re
	}
	return &RemoteError{Op: op, Message: err.Error(), Err: err}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalid, err)
}
