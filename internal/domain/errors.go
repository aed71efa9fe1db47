package domain

import "errors"

// Sentinel errors for the order lifecycle. Services wrap them with context
// (fmt.Errorf + %w); handlers map them to HTTP statuses with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrAlreadyCancelled   = errors.New("order already cancelled")
	ErrValidation         = errors.New("invalid input")
)
