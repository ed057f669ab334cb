package services

import "errors"

var (
	// ErrNotFound is returned when a referenced product, cart line, order or account is absent.
	ErrNotFound = errors.New("not found")

	// ErrValidation is returned for malformed or out-of-range input fields.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a create would violate a uniqueness rule.
	ErrConflict = errors.New("already exists")

	// ErrInsufficientStock is returned when a quantity exceeds the product's stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInvalidTransition is returned for an order status change the state machine forbids.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrAuth is returned for unknown emails and wrong passwords alike.
	ErrAuth = errors.New("invalid email or password")
)
