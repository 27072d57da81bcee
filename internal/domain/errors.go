package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrNotAuthenticated   = errors.New("login required")
	ErrTripNotFound       = errors.New("trip not found")
)

// ErrorKind classifies failures of external collaborators
type ErrorKind string

const (
	KindAuth       ErrorKind = "auth"
	KindStore      ErrorKind = "store"
	KindGeneration ErrorKind = "generation"
)

// Error wraps a collaborator failure with its kind and the operation that raised it
type Error struct {
	Kind ErrorKind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// AuthError marks err as an identity gateway failure
func AuthError(op string, err error) error {
	return &Error{Kind: KindAuth, Op: op, Err: err}
}

// StoreError marks err as a persistence failure
func StoreError(op string, err error) error {
	return &Error{Kind: KindStore, Op: op, Err: err}
}

// GenerationError marks err as a generation service failure
func GenerationError(op string, err error) error {
	return &Error{Kind: KindGeneration, Op: op, Err: err}
}

// KindOf returns the kind of err, or "" when it is not a classified error
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
