package ledger

import (
	"time"

	"github.com/google/uuid"
)

// Activity is an immutable log entry for one emission-producing activity.
type Activity struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	ActivityType string    `db:"activity_type"`
	Description  string    `db:"description"`
	Amount       float64   `db:"amount"`
	Unit         string    `db:"unit"`
	Date         time.Time `db:"date"`
	CreatedAt    time.Time `db:"created_at"`
}

// EmissionRecord is one appended emission value (kg CO2e) for a user+date.
// Rows are written once per recorded activity; daily totals are aggregates
// over them and are never re-derived into separate rows.
type EmissionRecord struct {
	ID            uuid.UUID `db:"id"`
	UserID        uuid.UUID `db:"user_id"`
	Date          time.Time `db:"date"`
	EmissionValue float64   `db:"emission_value"`
	CreatedAt     time.Time `db:"created_at"`
}

// Entry is one computed activity ready to be applied to the ledger.
type Entry struct {
	Activity Activity
	Emission float64 // kg CO2e, amount x factor
}
