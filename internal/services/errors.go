package services

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fundingledger/backend/internal/repository"
)

var (
	// ErrValidation marks missing or malformed input
	ErrValidation = errors.New("validation failed")
	// ErrNotFound covers both missing records and records the caller does not own
	ErrNotFound = errors.New("not found or access denied")
	// ErrInvalidStateTransition marks a disposition of an already terminal record
	ErrInvalidStateTransition = errors.New("invalid state transition")
)

// translateRepoError maps storage sentinels onto the service taxonomy and
// passes any other error through untouched. subject names the missing record.
func translateRepoError(subject string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return fmt.Errorf("%s %w", subject, ErrNotFound)
	case errors.Is(err, repository.ErrStaleStatus), errors.Is(err, repository.ErrDuplicateLedger):
		return fmt.Errorf("%w: %w", ErrInvalidStateTransition, err)
	default:
		return err
	}
}

// StatusFor returns the HTTP status code for an error produced by this package.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidStateTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
