package domain

import "errors"

// Engine validation failures. All are surfaced synchronously to the caller;
// none is transient. Match with errors.Is.
var (
	ErrInvalidRange      = errors.New("invalid price range")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidTransition = errors.New("invalid status transition")
)
