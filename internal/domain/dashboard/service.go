package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Overview represents the aggregated dashboard payload
type Overview struct {
	Credits       float64 `json:"credits"`
	WalletBalance float64 `json:"wallet_balance"`

	TotalEmissions float64 `json:"total_emissions_kg"`
	TotalOffset    float64 `json:"total_offset_kg"`
	ActivityCount  int     `json:"activity_count"`

	EmissionSeries []EmissionPoint `json:"emission_series"`
	Purchases      []PurchaseItem  `json:"purchases"`
	Offsets        []OffsetItem    `json:"offsets"`
}

// EmissionPoint is the total emission recorded on one date
type EmissionPoint struct {
	Date     string  `json:"date" db:"date"`
	Emission float64 `json:"emission_kg" db:"emission"`
}

// PurchaseItem is one marketplace purchase made by the user
type PurchaseItem struct {
	ID             uuid.UUID `json:"id" db:"id"`
	SellerUsername string    `json:"seller_username" db:"seller_username"`
	Credits        float64   `json:"credits" db:"credits_transferred"`
	TotalAmount    float64   `json:"total_amount" db:"total_amount"`
	CreatedAt      string    `json:"created_at" db:"created_at"`
}

// OffsetItem is one offset purchase made by the user
type OffsetItem struct {
	ID          uuid.UUID `json:"id" db:"id"`
	ProgramName string    `json:"program_name" db:"program_name"`
	CO2Offset   float64   `json:"co2_offset" db:"co2_offset"`
	CreditsUsed float64   `json:"credits_used" db:"credits_used"`
	CreatedAt   string    `json:"created_at" db:"created_at"`
}

// Service provides dashboard aggregation
type Service struct {
	db *sqlx.DB
}

// NewService creates dashboard service
func NewService(db *sqlx.DB) *Service {
	return &Service{db: db}
}

// GetOverview returns aggregated dashboard data for a user
func (s *Service) GetOverview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	overview := &Overview{
		EmissionSeries: []EmissionPoint{},
		Purchases:      []PurchaseItem{},
		Offsets:        []OffsetItem{},
	}

	err := s.db.QueryRowxContext(ctx,
		`SELECT credits, wallet_balance FROM users WHERE id = $1`,
		userID).Scan(&overview.Credits, &overview.WalletBalance)
	if err != nil {
		return nil, err
	}

	_ = s.db.GetContext(ctx, &overview.TotalEmissions,
		`SELECT COALESCE(SUM(emission_value), 0) FROM emission_records WHERE user_id = $1`,
		userID)

	_ = s.db.GetContext(ctx, &overview.TotalOffset,
		`SELECT COALESCE(SUM(co2_offset), 0) FROM offset_transactions WHERE user_id = $1`,
		userID)

	_ = s.db.GetContext(ctx, &overview.ActivityCount,
		`SELECT COUNT(*) FROM activities WHERE user_id = $1`,
		userID)

	_ = s.db.SelectContext(ctx, &overview.EmissionSeries,
		`SELECT to_char(date, 'YYYY-MM-DD') AS date, SUM(emission_value) AS emission
		 FROM emission_records
		 WHERE user_id = $1
		 GROUP BY date
		 ORDER BY date`,
		userID)

	_ = s.db.SelectContext(ctx, &overview.Purchases,
		`SELECT t.id, u.username AS seller_username, t.credits_transferred, t.total_amount,
		        to_char(t.created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"') AS created_at
		 FROM transactions t
		 JOIN users u ON u.id = t.seller_id
		 WHERE t.buyer_id = $1
		 ORDER BY t.created_at DESC
		 LIMIT 50`,
		userID)

	_ = s.db.SelectContext(ctx, &overview.Offsets,
		`SELECT ot.id, p.name AS program_name, ot.co2_offset, ot.credits_used,
		        to_char(ot.created_at, 'YYYY-MM-DD"T"HH24:MI:SS"Z"') AS created_at
		 FROM offset_transactions ot
		 JOIN offset_programs p ON p.id = ot.program_id
		 WHERE ot.user_id = $1
		 ORDER BY ot.created_at DESC
		 LIMIT 50`,
		userID)

	return overview, nil
}
