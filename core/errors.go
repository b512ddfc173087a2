package core

import (
	"errors"
	"strings"
)

var (
	// ErrMalformedToken is returned when an access token is structurally invalid
	ErrMalformedToken = errors.New("malformed access token")

	// ErrUnknownSigningKey is returned when no signing key matches the token's key ID
	ErrUnknownSigningKey = errors.New("unknown signing key")

	// ErrSignatureInvalid is returned when the token signature does not verify
	ErrSignatureInvalid = errors.New("invalid token signature")

	// ErrTokenExpired is returned when a token has expired
	ErrTokenExpired = errors.New("token has expired")

	// ErrMissingIdentity is returned when a token carries no email claim
	ErrMissingIdentity = errors.New("token missing identity")

	// ErrIssuerMismatch is returned when the token issuer does not match the trust domain
	ErrIssuerMismatch = errors.New("token issuer mismatch")

	// ErrInvalidStatus is returned when a status value is outside the configured enumeration
	ErrInvalidStatus = errors.New("invalid status value")

	// ErrNotFound is returned when no submission exists for the given ID
	ErrNotFound = errors.New("submission not found")

	// ErrStoreOperationFailed is returned when a store operation fails
	ErrStoreOperationFailed = errors.New("store operation failed")
)

// ValidationError aggregates field-level failures from submission creation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, ", ")
}

// Message returns the user-facing summary of the failed fields.
func (e *ValidationError) Message() string {
	return strings.Join(e.Fields, ", ")
}
