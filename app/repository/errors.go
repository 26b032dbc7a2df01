package repository

import "errors"

var (
	// ErrNotFound signals that a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNotAuthorized signals that the acting user does not own the record.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrDuplicate signals a unique-index violation, e.g. an order for a
	// Stripe checkout session that was already recorded.
	ErrDuplicate = errors.New("duplicate record")
)
