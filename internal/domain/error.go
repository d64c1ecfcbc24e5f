package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound           = errors.New("entity not found")
	ErrAlreadyExists      = errors.New("entity already exists")
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrInvalidExecContext = errors.New("invalid execution context")
	ErrOperationFailed    = errors.New("operation failed")
	ErrReadDatabaseRow    = errors.New("failed to read database row")

	// Configuration errors: fatal to the current request, never silently defaulted.
	ErrNoActiveEndpoint = errors.New("no active endpoint configured")
	ErrNoHeaders        = errors.New("no headers configured for provider")
	ErrNoQueryParams    = errors.New("no resolvable query parameters for endpoint")

	// Transform errors. Distinct from ErrNotFound: an absent field is a valid
	// query outcome, an unparsable provider payload is not.
	ErrUnparsablePayload = errors.New("provider payload is not valid JSON")

	ErrTransportFailed = errors.New("outbound call failed")
	ErrLockNotAcquired = errors.New("could not acquire lock")
)
