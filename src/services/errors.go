package services

import "errors"

// Sentinel errors for explicit error handling
// These errors allow callers to distinguish between different failure modes
// using errors.Is() instead of string matching

var (
	// ErrUserNotFound indicates the user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrUserExists indicates a user with the same username, surname and
	// email already exists
	ErrUserExists = errors.New("user already exists")

	// ErrAdminNotFound indicates the admin does not exist
	ErrAdminNotFound = errors.New("admin not found")

	// ErrAdminExists indicates admin self-registration is closed because an
	// admin already exists
	ErrAdminExists = errors.New("admin already exists")

	// ErrInvalidCredentials indicates authentication failed
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidField indicates an update named a field outside the
	// editable set
	ErrInvalidField = errors.New("invalid field")
)
