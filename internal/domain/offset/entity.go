package offset

import (
	"time"

	"github.com/google/uuid"
)

// Program is a sponsored offset program. RatePerKg is the credits required
// per kg of CO2 offset.
type Program struct {
	ID          uuid.UUID `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	RatePerKg   float64   `db:"rate_per_kg"`
	Image       string    `db:"image"`
	CreatedAt   time.Time `db:"created_at"`
}

// Transaction is the immutable record of a funded offset.
type Transaction struct {
	ID          uuid.UUID `db:"id"`
	UserID      uuid.UUID `db:"user_id"`
	ProgramID   uuid.UUID `db:"program_id"`
	CO2Offset   float64   `db:"co2_offset"`   // kg
	CreditsUsed float64   `db:"credits_used"` // rate_per_kg x co2_offset
	CreatedAt   time.Time `db:"created_at"`
}

// Result carries the transaction plus the user's balance after commit.
type Result struct {
	Transaction Transaction
	Credits     float64
}

// defaultPrograms are seeded when the catalog is empty.
func defaultPrograms() []Program {
	return []Program{
		{Name: "Tree Plantation Drive", Description: "Funds planting of new trees.", RatePerKg: 0.5, Image: "trees.jpg"},
		{Name: "Renewable Energy Project", Description: "Invests in solar/wind energy.", RatePerKg: 0.8, Image: "renewable.jpg"},
		{Name: "Ocean Cleanup Program", Description: "Supports ocean plastic cleanup.", RatePerKg: 1.0, Image: "ocean.jpg"},
	}
}
