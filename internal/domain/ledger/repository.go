package ledger

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

// Repository provides activity log and emission record persistence.
// ApplyEntries is the single write path for credit deductions caused by
// recorded activities.
type Repository interface {
	ApplyEntries(ctx context.Context, userID uuid.UUID, entries []Entry) (newCredits float64, err error)
	DailyEmission(ctx context.Context, userID uuid.UUID, date time.Time) (total float64, count int, err error)
	ListByUser(ctx context.Context, userID uuid.UUID, date *time.Time) ([]Activity, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates ledger repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

// ApplyEntries deducts each entry's tonne-equivalent emission from the
// user's credits, clamping at zero after every entry, and appends the
// activity and emission rows. Everything commits as one transaction holding
// a row lock on the user.
func (r *repository) ApplyEntries(ctx context.Context, userID uuid.UUID, entries []Entry) (float64, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return 0, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var credits float64
	err = tx.QueryRowContext(ctx2, `SELECT credits FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&credits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrUserNotFound
		}
		return 0, fmt.Errorf("%w: lock user row", ErrInternal)
	}

	for _, e := range entries {
		// kg CO2e to tonnes; excess reduction is dropped, never carried as debt
		credits -= e.Emission / 1000
		if credits < 0 {
			credits = 0
		}

		_, err = tx.ExecContext(ctx2, `
			INSERT INTO activities (id, user_id, activity_type, description, amount, unit, date, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, e.Activity.ID, userID, e.Activity.ActivityType, e.Activity.Description,
			e.Activity.Amount, e.Activity.Unit, e.Activity.Date, e.Activity.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("%w: insert activity", ErrInternal)
		}

		_, err = tx.ExecContext(ctx2, `
			INSERT INTO emission_records (id, user_id, date, emission_value, created_at)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New(), userID, e.Activity.Date, e.Emission, e.Activity.CreatedAt)
		if err != nil {
			return 0, fmt.Errorf("%w: insert emission record", ErrInternal)
		}
	}

	if _, err = tx.ExecContext(ctx2, `UPDATE users SET credits = $2, updated_at = NOW() WHERE id = $1`, userID, credits); err != nil {
		return 0, fmt.Errorf("%w: update user credits", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return credits, nil
}

// DailyEmission sums the user's emission rows for one date. Pure read.
func (r *repository) DailyEmission(ctx context.Context, userID uuid.UUID, date time.Time) (float64, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var row struct {
		Total float64 `db:"total"`
		Count int     `db:"count"`
	}
	err := r.db.GetContext(ctx2, &row, `
		SELECT COALESCE(SUM(emission_value), 0) AS total, COUNT(*) AS count
		FROM emission_records
		WHERE user_id = $1 AND date = $2
	`, userID, date)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: daily emission", ErrInternal)
	}

	return row.Total, row.Count, nil
}

// ListByUser returns activities newest first, optionally filtered by date
func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID, date *time.Time) ([]Activity, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	query := `
		SELECT id, user_id, activity_type, description, amount, unit, date, created_at
		FROM activities
		WHERE user_id = $1`
	args := []interface{}{userID}
	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	activities := make([]Activity, 0)
	if err := r.db.SelectContext(ctx2, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("%w: list activities", ErrInternal)
	}
	return activities, nil
}
