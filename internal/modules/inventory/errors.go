package inventory

import "errors"

var (
	// ErrRoomUnavailable: an administrator has blocked at least one
	// requested date.
	ErrRoomUnavailable = errors.New("room type is blocked for at least one requested date")

	// ErrCapacityExceeded: at least one requested night has no
	// sellable units left.
	ErrCapacityExceeded = errors.New("no remaining capacity for at least one requested night")

	// ErrConcurrentModification: the reservation could not commit
	// within the retry budget; the whole operation is safe to retry.
	ErrConcurrentModification = errors.New("reservation aborted due to concurrent modification")

	ErrValidation = errors.New("invalid date range")
)
