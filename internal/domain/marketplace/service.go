package marketplace

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles marketplace business logic
type Service struct {
	repo Repository
}

// NewService creates marketplace service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateListing escrows credits and publishes a listing
func (s *Service) CreateListing(ctx context.Context, sellerID uuid.UUID, req *CreateListingRequest) (*Listing, error) {
	if req.Credits <= 0 || req.PricePerCredit <= 0 {
		return nil, ErrInvalidAmount
	}

	listing, err := s.repo.CreateListing(ctx, sellerID, req.Credits, req.PricePerCredit)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("listing_id", listing.ID.String()).
		Str("seller_id", sellerID.String()).
		Float64("credits", listing.Credits).
		Float64("total_price", listing.TotalPrice).
		Msg("Listing created")

	return listing, nil
}

// Buy settles a purchase of the listing by the buyer
func (s *Service) Buy(ctx context.Context, buyerID, listingID uuid.UUID) (*BuyResult, error) {
	result, err := s.repo.Buy(ctx, buyerID, listingID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("transaction_id", result.Transaction.ID.String()).
		Str("listing_id", listingID.String()).
		Str("buyer_id", buyerID.String()).
		Str("seller_id", result.Transaction.SellerID.String()).
		Float64("credits", result.Transaction.CreditsTransferred).
		Float64("amount", result.Transaction.TotalAmount).
		Msg("Listing sold")

	return result, nil
}

// Cancel retires an available listing and refunds the escrowed credits
func (s *Service) Cancel(ctx context.Context, sellerID, listingID uuid.UUID) (*Listing, error) {
	listing, err := s.repo.Cancel(ctx, sellerID, listingID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("listing_id", listing.ID.String()).
		Str("seller_id", sellerID.String()).
		Float64("credits_refunded", listing.Credits).
		Msg("Listing cancelled")

	return listing, nil
}

// ListOpen returns available listings from other sellers
func (s *Service) ListOpen(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	return s.repo.ListOpen(ctx, userID)
}

// ListMine returns the user's own listings, all statuses
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	return s.repo.ListByUser(ctx, userID)
}
