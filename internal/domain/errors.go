package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrUnknownDestination = errors.New("unknown destination")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidStay        = errors.New("check-out must be after check-in")
	ErrInvalidGuests      = errors.New("invalid guest count")
	ErrInvalidPrice       = errors.New("invalid price")
	ErrConversationActive = errors.New("a booking conversation is already active")
	ErrStaleReference     = errors.New("stale reference")
	ErrPremiumInCart      = errors.New("premium lounge access is already in the cart")
	ErrEmptyCoupon        = errors.New("empty coupon code")
	ErrInvalidCoupon      = errors.New("invalid coupon code")
	ErrEmptyCart          = errors.New("cart is empty")
)
