package marketplace

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository provides listing persistence and the atomic trade operations.
// Every balance mutation happens inside one transaction together with its
// record insert.
type Repository interface {
	CreateListing(ctx context.Context, sellerID uuid.UUID, credits, pricePerCredit float64) (*Listing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Listing, error)
	ListOpen(ctx context.Context, excludeUserID uuid.UUID) ([]Listing, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error)
	Buy(ctx context.Context, buyerID, listingID uuid.UUID) (*BuyResult, error)
	Cancel(ctx context.Context, sellerID, listingID uuid.UUID) (*Listing, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates marketplace repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// CreateListing escrows the listed credits: the seller's balance is reduced
// immediately and the listing is inserted as available, in one transaction.
func (r *repository) CreateListing(ctx context.Context, sellerID uuid.UUID, credits, pricePerCredit float64) (*Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var balance float64
	err = tx.QueryRowContext(ctx2, `SELECT credits FROM users WHERE id = $1 FOR UPDATE`, sellerID).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: lock seller row", ErrInternal)
	}

	if balance < credits {
		return nil, fmt.Errorf("%w: listing %.2f but have %.2f", ErrInsufficientCredits, credits, balance)
	}

	if _, err = tx.ExecContext(ctx2, `
		UPDATE users SET credits = credits - $2, updated_at = NOW() WHERE id = $1
	`, sellerID, credits); err != nil {
		return nil, fmt.Errorf("%w: escrow credits", ErrInternal)
	}

	now := time.Now()
	listing := &Listing{
		ID:             uuid.New(),
		SellerID:       sellerID,
		Credits:        credits,
		PricePerCredit: pricePerCredit,
		TotalPrice:     credits * pricePerCredit,
		Status:         StatusAvailable,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err = tx.ExecContext(ctx2, `
		INSERT INTO marketplace_listings (id, seller_id, credits, price_per_credit, total_price, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, listing.ID, listing.SellerID, listing.Credits, listing.PricePerCredit,
		listing.TotalPrice, listing.Status, listing.CreatedAt, listing.UpdatedAt); err != nil {
		return nil, fmt.Errorf("%w: insert listing", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return listing, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var l Listing
	err := r.db.GetContext(ctx2, &l, `
		SELECT id, seller_id, credits, price_per_credit, total_price, status, created_at, updated_at
		FROM marketplace_listings
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get listing", ErrInternal)
	}
	return &l, nil
}

func (r *repository) ListOpen(ctx context.Context, excludeUserID uuid.UUID) ([]Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	listings := make([]Listing, 0)
	err := r.db.SelectContext(ctx2, &listings, `
		SELECT id, seller_id, credits, price_per_credit, total_price, status, created_at, updated_at
		FROM marketplace_listings
		WHERE status = 'available' AND seller_id != $1
		ORDER BY created_at DESC
	`, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("%w: list open listings", ErrInternal)
	}
	return listings, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	listings := make([]Listing, 0)
	err := r.db.SelectContext(ctx2, &listings, `
		SELECT id, seller_id, credits, price_per_credit, total_price, status, created_at, updated_at
		FROM marketplace_listings
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list user listings", ErrInternal)
	}
	return listings, nil
}

// Buy settles a trade atomically: wallet moves buyer to seller, credits move
// to the buyer, the listing flips available to sold exactly once, and the
// transaction row is inserted, all in one transaction. The row lock on the
// listing serializes concurrent buyers; the conditional status update is the
// final guard so at most one can win.
func (r *repository) Buy(ctx context.Context, buyerID, listingID uuid.UUID) (*BuyResult, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var l Listing
	err = tx.QueryRowxContext(ctx2, `
		SELECT id, seller_id, credits, price_per_credit, total_price, status, created_at, updated_at
		FROM marketplace_listings
		WHERE id = $1
		FOR UPDATE
	`, listingID).StructScan(&l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("%w: lock listing row", ErrInternal)
	}

	if l.SellerID == buyerID {
		return nil, ErrSelfTrade
	}
	switch l.Status {
	case StatusSold:
		return nil, ErrAlreadySold
	case StatusCancelled:
		return nil, ErrNotAvailable
	}

	// Lock both user rows in ascending ID order so concurrent cross
	// purchases cannot deadlock.
	first, second := buyerID, l.SellerID
	if second.String() < first.String() {
		first, second = second, first
	}
	for _, id := range []uuid.UUID{first, second} {
		if _, err := tx.ExecContext(ctx2, `SELECT 1 FROM users WHERE id = $1 FOR UPDATE`, id); err != nil {
			return nil, fmt.Errorf("%w: lock user row", ErrInternal)
		}
	}

	var wallet float64
	if err := tx.QueryRowContext(ctx2, `SELECT wallet_balance FROM users WHERE id = $1`, buyerID).Scan(&wallet); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: read buyer wallet", ErrInternal)
	}
	if wallet < l.TotalPrice {
		return nil, fmt.Errorf("%w: need %.2f but have %.2f", ErrInsufficientFunds, l.TotalPrice, wallet)
	}

	// The seller's credits were escrowed at listing time; only currency and
	// the buyer's credits move here.
	if _, err := tx.ExecContext(ctx2, `
		UPDATE users SET wallet_balance = wallet_balance - $2, credits = credits + $3, updated_at = NOW()
		WHERE id = $1
	`, buyerID, l.TotalPrice, l.Credits); err != nil {
		return nil, fmt.Errorf("%w: update buyer balances", ErrInternal)
	}
	if _, err := tx.ExecContext(ctx2, `
		UPDATE users SET wallet_balance = wallet_balance + $2, updated_at = NOW()
		WHERE id = $1
	`, l.SellerID, l.TotalPrice); err != nil {
		return nil, fmt.Errorf("%w: update seller balances", ErrInternal)
	}

	result, err := tx.ExecContext(ctx2, `
		UPDATE marketplace_listings SET status = 'sold', updated_at = NOW()
		WHERE id = $1 AND status = 'available'
	`, l.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: mark listing sold", ErrInternal)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return nil, ErrAlreadySold
	}

	trade := Transaction{
		ID:                 uuid.New(),
		ListingID:          l.ID,
		BuyerID:            buyerID,
		SellerID:           l.SellerID,
		CreditsTransferred: l.Credits,
		TotalAmount:        l.TotalPrice,
		CreatedAt:          time.Now(),
	}
	if _, err := tx.ExecContext(ctx2, `
		INSERT INTO transactions (id, listing_id, buyer_id, seller_id, credits_transferred, total_amount, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, trade.ID, trade.ListingID, trade.BuyerID, trade.SellerID,
		trade.CreditsTransferred, trade.TotalAmount, trade.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: insert transaction", ErrInternal)
	}

	var buyerCredits, buyerWallet float64
	if err := tx.QueryRowContext(ctx2, `SELECT credits, wallet_balance FROM users WHERE id = $1`, buyerID).
		Scan(&buyerCredits, &buyerWallet); err != nil {
		return nil, fmt.Errorf("%w: read buyer balances", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return &BuyResult{
		Transaction:  trade,
		BuyerCredits: buyerCredits,
		BuyerWallet:  buyerWallet,
	}, nil
}

// Cancel refunds the escrowed credits to the seller and retires the
// listing. Owner-only, and only while the listing is still available.
func (r *repository) Cancel(ctx context.Context, sellerID, listingID uuid.UUID) (*Listing, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var l Listing
	err = tx.QueryRowxContext(ctx2, `
		SELECT id, seller_id, credits, price_per_credit, total_price, status, created_at, updated_at
		FROM marketplace_listings
		WHERE id = $1
		FOR UPDATE
	`, listingID).StructScan(&l)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, fmt.Errorf("%w: lock listing row", ErrInternal)
	}

	if l.SellerID != sellerID {
		return nil, ErrNotOwner
	}
	switch l.Status {
	case StatusSold:
		return nil, ErrAlreadySold
	case StatusCancelled:
		return nil, ErrNotAvailable
	}

	if _, err := tx.ExecContext(ctx2, `
		UPDATE users SET credits = credits + $2, updated_at = NOW() WHERE id = $1
	`, sellerID, l.Credits); err != nil {
		return nil, fmt.Errorf("%w: refund credits", ErrInternal)
	}

	if _, err := tx.ExecContext(ctx2, `
		UPDATE marketplace_listings SET status = 'cancelled', updated_at = NOW()
		WHERE id = $1 AND status = 'available'
	`, l.ID); err != nil {
		return nil, fmt.Errorf("%w: mark listing cancelled", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	l.Status = StatusCancelled
	return &l, nil
}
