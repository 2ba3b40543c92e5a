package marketplace

import (
	"time"

	"github.com/google/uuid"
)

// CreateListingRequest for POST /marketplace
type CreateListingRequest struct {
	Credits        float64 `json:"credits" validate:"required,gt=0"`
	PricePerCredit float64 `json:"price_per_credit" validate:"required,gt=0"`
}

// ListingResponse represents a listing in API responses
type ListingResponse struct {
	ID             uuid.UUID `json:"id"`
	SellerID       uuid.UUID `json:"seller_id"`
	Credits        float64   `json:"credits"`
	PricePerCredit float64   `json:"price_per_credit"`
	TotalPrice     float64   `json:"total_price"`
	Status         string    `json:"status"`
	CreatedAt      string    `json:"created_at"`
}

// ListingResponseFromEntity converts entity to response
func ListingResponseFromEntity(l *Listing) *ListingResponse {
	return &ListingResponse{
		ID:             l.ID,
		SellerID:       l.SellerID,
		Credits:        l.Credits,
		PricePerCredit: l.PricePerCredit,
		TotalPrice:     l.TotalPrice,
		Status:         string(l.Status),
		CreatedAt:      l.CreatedAt.Format(time.RFC3339),
	}
}

// BuyResponse for POST /marketplace/{id}/buy
type BuyResponse struct {
	TransactionID      uuid.UUID `json:"transaction_id"`
	CreditsTransferred float64   `json:"credits_transferred"`
	TotalAmount        float64   `json:"total_amount"`
	Credits            float64   `json:"credits"`        // buyer balance after trade
	WalletBalance      float64   `json:"wallet_balance"` // buyer wallet after trade
}
