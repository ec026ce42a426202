package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Service-level (business logic) errors
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")

	// Authorization
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden: insufficient permissions")
	ErrInvalidRole  = errors.New("invalid user role")
)
