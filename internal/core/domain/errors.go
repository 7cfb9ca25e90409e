package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAmbiguous indicates a lookup matched more than one entity and the
	// caller must disambiguate. The concrete error usually carries the
	// candidate list (see drive.AmbiguityError).
	ErrAmbiguous = errors.New("ambiguous match")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnrecognizedReference indicates a resource reference contained a known
	// host marker but matched none of the known URL shapes.
	ErrUnrecognizedReference = errors.New("unrecognised resource reference")

	// Authentication Errors.

	// ErrAuthRequired indicates no usable credential exists and one could not
	// be created (for example the client-secret file is missing).
	ErrAuthRequired = errors.New("authentication required")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrConsentDenied indicates the user declined (or abandoned) the
	// interactive consent flow.
	ErrConsentDenied = errors.New("consent denied")

	// ErrConfirmationDeclined indicates the operator answered no to an
	// interactive confirmation prompt for a destructive operation.
	ErrConfirmationDeclined = errors.New("confirmation declined")
)
