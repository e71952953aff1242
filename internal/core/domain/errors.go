package domain

import "errors"

// Error taxonomy shared by services and the HTTP boundary.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUserExists         = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrListingNotFound    = errors.New("listing not found")
	ErrForbidden          = errors.New("access forbidden")
)
