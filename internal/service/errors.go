// Package service contains the storefront's core business rules: cart
// manipulation, checkout, pricing, order lifecycle and account management.
// Services depend on narrow store interfaces so the rules can be tested
// without a live database.
package service

import "errors"

// Sentinel errors returned by the services. Handlers translate them to
// HTTP status codes with errors.Is.
var (
	// ErrNotFound signals that the referenced entity does not exist or is
	// not visible to the caller.
	ErrNotFound = errors.New("not found")

	// ErrEmptyCart is returned by checkout when the session has no cart rows.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrUnsupportedCurrency is returned when no active conversion rate
	// exists for the requested currency code.
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidTransition is returned when an order status change is not
	// allowed from the order's current status.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden signals that the caller's role does not permit the action.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict signals a uniqueness violation (email or username taken).
	ErrConflict = errors.New("conflict")

	// ErrValidation signals malformed or missing input.
	ErrValidation = errors.New("validation failed")
)
