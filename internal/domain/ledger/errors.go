package ledger

import "errors"

var (
	// ErrInvalidDate is returned for malformed date strings
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrNoActivities is returned when a daily query finds no activities
	ErrNoActivities = errors.New("no activities found for date")

	// ErrUserNotFound is returned when the user row does not exist
	ErrUserNotFound = errors.New("user not found")

	ErrInternal = errors.New("internal error")
)
