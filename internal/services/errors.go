package services

import "errors"

// Closed set of error kinds surfaced by the services. Handlers map each
// kind to an HTTP status; nothing outside this set reaches a response
// body with a specific status.
var (
	// ErrInvalidInput covers malformed or missing request fields.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidCredentials covers both an unknown login and a wrong
	// password; the two are never distinguished in responses.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountNotFound means the referenced account does not exist,
	// locally or per the account service.
	ErrAccountNotFound = errors.New("account not found")

	// ErrProfileNotFound means the referenced profile does not exist.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPhotoNotFound means the profile exists but has no stored photo.
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrAlreadyExists means a login is already registered.
	ErrAlreadyExists = errors.New("account already exists")

	// ErrOwnershipMismatch means the caller's account does not own the
	// resource it tried to mutate or read.
	ErrOwnershipMismatch = errors.New("ownership mismatch")

	// ErrUpstreamUnavailable means a dependency call failed for a reason
	// other than "not found". Kept distinct from ErrAccountNotFound: one
	// is a client error, the other a dependency failure.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
