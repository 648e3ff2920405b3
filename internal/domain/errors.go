package domain

import "errors"

// Failure kinds returned by the core services. Callers match with errors.Is;
// the HTTP layer maps each kind to a status code in one place.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrNotFound            = errors.New("not found")
	ErrInvalidArgument     = errors.New("invalid argument")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrOverflow            = errors.New("arithmetic overflow")
	ErrInvariantViolation  = errors.New("invariant violation")
)
