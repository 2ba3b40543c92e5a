package marketplace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeListingRepo struct {
	listings map[uuid.UUID]*Listing

	buyErr    error
	buyResult *BuyResult
	bought    []uuid.UUID
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{listings: map[uuid.UUID]*Listing{}}
}

func (f *fakeListingRepo) CreateListing(ctx context.Context, sellerID uuid.UUID, credits, pricePerCredit float64) (*Listing, error) {
	l := &Listing{
		ID:             uuid.New(),
		SellerID:       sellerID,
		Credits:        credits,
		PricePerCredit: pricePerCredit,
		TotalPrice:     credits * pricePerCredit,
		Status:         StatusAvailable,
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}
	f.listings[l.ID] = l
	return l, nil
}

func (f *fakeListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	return f.listings[id], nil
}

func (f *fakeListingRepo) ListOpen(ctx context.Context, excludeUserID uuid.UUID) ([]Listing, error) {
	out := make([]Listing, 0)
	for _, l := range f.listings {
		if l.Status == StatusAvailable && l.SellerID != excludeUserID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	out := make([]Listing, 0)
	for _, l := range f.listings {
		if l.SellerID == userID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (f *fakeListingRepo) Buy(ctx context.Context, buyerID, listingID uuid.UUID) (*BuyResult, error) {
	if f.buyErr != nil {
		return nil, f.buyErr
	}
	f.bought = append(f.bought, listingID)
	if l, ok := f.listings[listingID]; ok {
		l.Status = StatusSold
	}
	return f.buyResult, nil
}

func (f *fakeListingRepo) Cancel(ctx context.Context, sellerID, listingID uuid.UUID) (*Listing, error) {
	l, ok := f.listings[listingID]
	if !ok {
		return nil, ErrListingNotFound
	}
	if l.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	if l.Status != StatusAvailable {
		return nil, ErrAlreadySold
	}
	l.Status = StatusCancelled
	return l, nil
}

func TestCreateListing(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	sellerID := uuid.New()

	listing, err := svc.CreateListing(context.Background(), sellerID, &CreateListingRequest{
		Credits:        10,
		PricePerCredit: 5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if listing.TotalPrice != 50 {
		t.Errorf("expected total price 50, got %v", listing.TotalPrice)
	}
	if listing.Status != StatusAvailable {
		t.Errorf("expected status available, got %s", listing.Status)
	}
}

func TestCreateListingRejectsNonPositive(t *testing.T) {
	svc := NewService(newFakeListingRepo())
	sellerID := uuid.New()

	cases := []CreateListingRequest{
		{Credits: 0, PricePerCredit: 5},
		{Credits: -10, PricePerCredit: 5},
		{Credits: 10, PricePerCredit: 0},
		{Credits: 10, PricePerCredit: -1},
	}
	for _, req := range cases {
		if _, err := svc.CreateListing(context.Background(), sellerID, &req); !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("credits=%v price=%v: expected ErrInvalidAmount, got %v", req.Credits, req.PricePerCredit, err)
		}
	}
}

func TestBuyPassesThroughResult(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	buyerID := uuid.New()
	sellerID := uuid.New()

	listing, _ := repo.CreateListing(context.Background(), sellerID, 10, 5)
	repo.buyResult = &BuyResult{
		Transaction: Transaction{
			ID:                 uuid.New(),
			ListingID:          listing.ID,
			BuyerID:            buyerID,
			SellerID:           sellerID,
			CreditsTransferred: 10,
			TotalAmount:        50,
		},
		BuyerCredits: 1010,
		BuyerWallet:  50,
	}

	result, err := svc.Buy(context.Background(), buyerID, listing.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.BuyerCredits != 1010 || result.BuyerWallet != 50 {
		t.Errorf("unexpected buyer balances: credits=%v wallet=%v", result.BuyerCredits, result.BuyerWallet)
	}
	if len(repo.bought) != 1 {
		t.Errorf("expected exactly one buy call, got %d", len(repo.bought))
	}
}

func TestBuyPropagatesErrors(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)

	for _, want := range []error{ErrSelfTrade, ErrAlreadySold, ErrInsufficientFunds, ErrListingNotFound} {
		repo.buyErr = want
		if _, err := svc.Buy(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
	}
}

func TestCancelRefundsOnlyOwnAvailableListing(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	sellerID := uuid.New()

	listing, _ := repo.CreateListing(context.Background(), sellerID, 10, 5)

	if _, err := svc.Cancel(context.Background(), uuid.New(), listing.ID); !errors.Is(err, ErrNotOwner) {
		t.Errorf("expected ErrNotOwner for foreign listing, got %v", err)
	}

	cancelled, err := svc.Cancel(context.Background(), sellerID, listing.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("expected status cancelled, got %s", cancelled.Status)
	}

	if _, err := svc.Cancel(context.Background(), sellerID, listing.ID); err == nil {
		t.Error("expected error cancelling twice")
	}
}

func TestListOpenExcludesOwnListings(t *testing.T) {
	repo := newFakeListingRepo()
	svc := NewService(repo)
	me := uuid.New()
	other := uuid.New()

	repo.CreateListing(context.Background(), me, 5, 2)
	repo.CreateListing(context.Background(), other, 5, 2)

	open, err := svc.ListOpen(context.Background(), me)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(open) != 1 {
		t.Fatalf("expected 1 open listing, got %d", len(open))
	}
	if open[0].SellerID != other {
		t.Errorf("expected other seller's listing, got seller %s", open[0].SellerID)
	}
}
