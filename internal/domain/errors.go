package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrCandidateVanished    = errors.New("candidate no longer exists")
	ErrAlreadyVoted         = errors.New("voter has already voted")
	ErrOperationInProgress  = errors.New("another operation is already in progress")
	ErrVoterExists          = errors.New("voter already registered at this location")
	ErrExtractionFailed     = errors.New("no voter information could be extracted from the image")
	ErrNoRegisteredVoters   = errors.New("no registered voters found for the selected location")
	ErrNoFaceData           = errors.New("no valid face data found for voters in this location")
	ErrAuthTimeout          = errors.New("authentication timeout, no matching voter found")
	ErrSessionCancelled     = errors.New("face authentication was cancelled")
	ErrSessionNotFound      = errors.New("face authentication session not found")
	ErrUnknownDistrict      = errors.New("unknown district")
	ErrStoreUnavailable     = errors.New("data store unavailable")
	ErrCollaboratorFailed   = errors.New("external service failed")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrEmailExists          = errors.New("email already registered")
	ErrInvalidToken         = errors.New("invalid or expired token")
	ErrUserNotFound         = errors.New("user not found")
	ErrAdminSignupForbidden = errors.New("admin sign-up requires a valid admin code")
	ErrFederatedDisabled    = errors.New("federated sign-in is not configured")
)

// ValidationError reports a single invalid or missing input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func IsValidationError(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
