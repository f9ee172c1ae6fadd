package core

import "errors"

// Common errors.
var (
	// ErrNullReference means a required argument was not supplied.
	ErrNullReference = errors.New("required argument is missing")
	// ErrInvalidArgument means a supplied value violates a structural precondition.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidState means the request conflicts with the meeting's current classification.
	ErrInvalidState = errors.New("invalid state")
	// ErrPersistence wraps failures of the underlying Repository.
	ErrPersistence = errors.New("persistence failed")
	ErrReadOnly    = errors.New("service is in read-only mode")
)
