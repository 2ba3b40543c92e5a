package marketplace

import (
	"time"

	"github.com/google/uuid"
)

// Status represents the listing lifecycle: a listing leaves available
// exactly once, to sold or cancelled.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSold      Status = "sold"
	StatusCancelled Status = "cancelled"
)

// Listing offers escrowed credits for sale. The listed credits are debited
// from the seller at creation time; purchase moves currency and credits to
// the buyer without touching the seller's credit balance again.
type Listing struct {
	ID             uuid.UUID `db:"id"`
	SellerID       uuid.UUID `db:"seller_id"`
	Credits        float64   `db:"credits"`
	PricePerCredit float64   `db:"price_per_credit"`
	TotalPrice     float64   `db:"total_price"`
	Status         Status    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}

// Transaction is the immutable record of a completed trade.
type Transaction struct {
	ID                 uuid.UUID `db:"id"`
	ListingID          uuid.UUID `db:"listing_id"`
	BuyerID            uuid.UUID `db:"buyer_id"`
	SellerID           uuid.UUID `db:"seller_id"`
	CreditsTransferred float64   `db:"credits_transferred"`
	TotalAmount        float64   `db:"total_amount"`
	CreatedAt          time.Time `db:"created_at"`
}

// BuyResult carries the transaction plus the buyer's balances after commit.
type BuyResult struct {
	Transaction  Transaction
	BuyerCredits float64
	BuyerWallet  float64
}
