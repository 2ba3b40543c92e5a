package offset

import "errors"

var (
	// ErrInsufficientCredits is returned when the user cannot fund the offset
	ErrInsufficientCredits = errors.New("not enough credits")

	// ErrProgramNotFound is returned when the program does not exist
	ErrProgramNotFound = errors.New("offset program not found")

	// ErrInvalidAmount is returned when co2_amount is not positive
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	ErrUserNotFound = errors.New("user not found")

	ErrInternal = errors.New("internal error")
)
