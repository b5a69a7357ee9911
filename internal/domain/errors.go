package domain

import "errors"

var (
	// ErrInvalidRequest signals malformed request options (unknown category, tier, range).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUnauthenticated signals a missing or unverifiable principal.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrUnauthorized signals a verified principal without access.
	ErrUnauthorized = errors.New("unauthorized")
)
