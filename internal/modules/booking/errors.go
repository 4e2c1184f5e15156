package booking

import "errors"

var (
	ErrValidation              = errors.New("validation error")
	ErrNotFound                = errors.New("booking not found")
	ErrInvalidStatusTransition = errors.New("invalid booking status transition")
	ErrInvalidPaymentReference = errors.New("payment reference must be exactly 5 digits")
)
