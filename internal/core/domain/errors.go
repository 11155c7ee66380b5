package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("please login first")
	ErrForbidden          = errors.New("access forbidden")
	ErrMissing            = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")

	ErrCaseNotFound    = fmt.Errorf("case %w", ErrMissing)
	ErrCommentNotFound = fmt.Errorf("comment %w", ErrMissing)
)

// ProviderError wraps a failure reported by the identity or store backend.
// Its message is the backend's, verbatim.
type ProviderError struct {
	Op  string
	Err error
}

func (e *ProviderError) Error() string {
	return e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError wraps err unless it is already a domain error.
func NewProviderError(op string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Op: op, Err: err}
}
