// Package common defines sentinel errors shared by the Duemate client layers.
// Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Precondition errors, detected locally before any network call.
	ErrNotAuthenticated  = errors.New("auth token missing")
	ErrNoPendingIdentity = errors.New("missing login info")
	ErrEmptyOTP          = errors.New("empty otp")
	ErrEmptyIdentifier   = errors.New("empty identifier")
	ErrMissingField      = errors.New("missing required field")

	// Transport errors.
	ErrUnavailable = errors.New("server unavailable")

	// User interaction.
	ErrConfirmationDeclined = errors.New("confirmation declined")

	// Storage.
	ErrorNotFound = errors.New("not found")
)
