package services

import (
	"errors"

	"github.com/devilmonastery/greenhouse/internal/domain/repositories"
)

// lookupFailureReason returns a stable reason string for account lookup
// failures, used in log attributes. Never includes the supplied credential.
func lookupFailureReason(err error) string {
	switch {
	case errors.Is(err, repositories.ErrUsernameNotFound):
		return "username_not_found"
	case errors.Is(err, repositories.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, repositories.ErrInvalidPassword):
		return "invalid_password"
	default:
		return "lookup_failed"
	}
}

// IsEmailOnFile checks if the error indicates an email conflict on creation
func IsEmailOnFile(err error) bool {
	return errors.Is(err, repositories.ErrEmailOnFile)
}

// IsUsernameNotFound checks if the error indicates no matching identity
func IsUsernameNotFound(err error) bool {
	return errors.Is(err, repositories.ErrUsernameNotFound)
}

// IsInvalidPassword checks if the error indicates a failed password check
func IsInvalidPassword(err error) bool {
	return errors.Is(err, repositories.ErrInvalidPassword)
}

// IsAccountAlreadyConnected checks if the error indicates a duplicate
// provider link
func IsAccountAlreadyConnected(err error) bool {
	return errors.Is(err, repositories.ErrAccountAlreadyConnected)
}

// IsInvalidAPIKey checks if the error indicates an unregistered API key
func IsInvalidAPIKey(err error) bool {
	return errors.Is(err, repositories.ErrInvalidAPIKey)
}
