package rewards

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrInsufficientBalance = errors.New("insufficient available points")
	ErrInvalidAmount       = errors.New("exactly one positive amount is required")
)
