package orderbookv1

import "errors"

var (
	// ErrInvalidPrice is returned when an order price is not positive.
	ErrInvalidPrice = errors.New("price must be positive")
	// ErrInvalidSize is returned when an order size is not positive.
	ErrInvalidSize = errors.New("size must be positive")
	// ErrInvalidSide is returned when a side is neither bid nor ask.
	ErrInvalidSide = errors.New("invalid side")

	// ErrInsufficientAskVolume is returned when the resting asks cannot
	// cover a requested buy quantity.
	ErrInsufficientAskVolume = errors.New("insufficient ask volume")
	// ErrInsufficientBidVolume is returned when the resting bids cannot
	// cover a requested sell quantity.
	ErrInsufficientBidVolume = errors.New("insufficient bid volume")
)
