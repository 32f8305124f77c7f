package domain

import "errors"

// Validation errors are detected locally and never reach the network.
var (
	ErrMissingUser      = errors.New("no authenticated user")
	ErrMissingDateRange = errors.New("check-in and check-out dates are required")
	ErrInvalidRange     = errors.New("check-out must be after check-in")
	ErrInvalidRating    = errors.New("rating must be an integer from 1 to 5")
	ErrEmptyComment     = errors.New("comment must not be empty")
	ErrInvalidStatus    = errors.New("invalid booking status")
)

// Remote errors wrap the collaborator's failure message verbatim. They always
// propagate to the caller for display and are never retried automatically.
var (
	ErrRemoteBooking = errors.New("booking create failed")
	ErrRemoteUpdate  = errors.New("booking update failed")
	ErrRemoteDelete  = errors.New("booking delete failed")
)

// IsValidation reports whether err belongs to the local validation taxonomy.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrMissingUser, ErrMissingDateRange, ErrInvalidRange,
		ErrInvalidRating, ErrEmptyComment, ErrInvalidStatus,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
