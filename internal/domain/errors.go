package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrEmptyCart is returned when checkout is attempted with no items.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidItems indicates a checkout payload with missing or malformed items.
	ErrInvalidItems          = errors.New("invalid items")
	ErrInvalidDeliveryMethod = errors.New("invalid delivery method")
	// ErrCheckoutInProgress is returned while a previous checkout for the same cart is still processing.
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrTotalMismatch      = errors.New("declared total does not match cart")
	// ErrOutOfStock is returned when an unavailable product is added to a cart.
	ErrOutOfStock = errors.New("product out of stock")
)
