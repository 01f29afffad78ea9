package services

import "errors"

// Sentinel errors surfaced to the controllers, which map them onto
// HTTP responses.
var (
	ErrNotFound           = errors.New("record not found")
	ErrAlreadyExists      = errors.New("record already exists")
	ErrHasBooks           = errors.New("record is referenced by existing books")
	ErrBookInOrders       = errors.New("book is referenced by order items")
	ErrUserExists         = errors.New("telegram user already exists")
	ErrUserNotFound       = errors.New("telegram user not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmptyOrder         = errors.New("order must contain at least one item")
)
