package domain

import "errors"

var (
	// ErrInvalidTransition booking cannot move to the requested state
	ErrInvalidTransition = errors.New("domain: invalid booking status transition")

	// ErrInvalidAmount amount is negative, zero or not representable in minor units
	ErrInvalidAmount = errors.New("domain: invalid monetary amount")

	// ErrInvalidFeeRate fee rate outside [0, 1)
	ErrInvalidFeeRate = errors.New("domain: invalid platform fee rate")

	// ErrSplitNotConserved amount != platform_fee + practitioner_amount
	ErrSplitNotConserved = errors.New("domain: payment split does not add up to amount")
)

// ErrAmountMismatch payment amount differs from the booking's agreed price. Never coerced.
var ErrAmountMismatch = errors.New("domain: payment amount does not match agreed price")
