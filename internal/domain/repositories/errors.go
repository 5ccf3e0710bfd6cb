package repositories

import "errors"

// Domain-specific repository errors. Each expected, caller-recoverable
// outcome gets its own sentinel so callers branch with errors.Is rather
// than matching message text. Infrastructure failures are wrapped with %w
// and never alias one of these.
var (
	// ErrEmailOnFile is returned when account creation collides with an
	// already-registered email
	ErrEmailOnFile = errors.New("email already on file")

	// ErrAccountNotFound is returned when an account cannot be found by ID
	ErrAccountNotFound = errors.New("account not found")

	// ErrUsernameNotFound is returned when neither a username nor an email
	// matches the supplied login key
	ErrUsernameNotFound = errors.New("username not found")

	// ErrInvalidPassword is returned when the account exists but the
	// supplied password does not match the stored hash
	ErrInvalidPassword = errors.New("invalid password")

	// ErrAccountAlreadyConnected is returned when a (account, provider)
	// link already exists
	ErrAccountAlreadyConnected = errors.New("account already connected to provider")

	// ErrConnectedAccountNotFound is returned when no link matches the
	// supplied provider credentials
	ErrConnectedAccountNotFound = errors.New("connected account not found")

	// ErrInvalidAPIKey is returned when the supplied API key is not a
	// registered application
	ErrInvalidAPIKey = errors.New("invalid api key")

	// ErrConnectedAppNotFound is returned when no credential record
	// matches the supplied access token
	ErrConnectedAppNotFound = errors.New("connected app not found")
)
