package marketplace

import "errors"

var (
	// ErrInsufficientCredits is returned when listing more credits than held
	ErrInsufficientCredits = errors.New("insufficient credits")

	// ErrInsufficientFunds is returned when the buyer's wallet cannot cover the price
	ErrInsufficientFunds = errors.New("insufficient wallet balance")

	// ErrSelfTrade is returned when a user tries to buy their own listing
	ErrSelfTrade = errors.New("cannot buy your own listing")

	// ErrAlreadySold is returned when the listing was already sold
	ErrAlreadySold = errors.New("listing already sold")

	// ErrNotAvailable is returned when the listing was cancelled
	ErrNotAvailable = errors.New("listing is no longer available")

	// ErrNotOwner is returned when cancelling someone else's listing
	ErrNotOwner = errors.New("listing belongs to another user")

	// ErrListingNotFound is returned when the listing does not exist
	ErrListingNotFound = errors.New("listing not found")

	// ErrInvalidAmount is returned when credits or price are not positive
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	ErrUserNotFound = errors.New("user not found")

	ErrInternal = errors.New("internal error")
)
