package domain

import "errors"

var (
	// ErrValidation marks a missing or malformed field on a mutating call.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a reference to an id that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrPersistence marks a failed read or write of durable state.
	ErrPersistence = errors.New("persistence failure")
	// ErrKeyNotFound is returned by key-value stores for an absent key.
	ErrKeyNotFound = errors.New("key not found")

	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrEventNotFound      = errors.New("event not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access forbidden")
	ErrNoSession          = errors.New("no active session")
	ErrEventClosed        = errors.New("event already took place")
	ErrReportUnavailable  = errors.New("report generation unavailable")
	ErrTooManyAttempts    = errors.New("too many login attempts")
)
