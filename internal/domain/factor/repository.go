package factor

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

// Repository defines emission factor data access
type Repository interface {
	GetByType(ctx context.Context, activityType string) (*EmissionFactor, error)
	List(ctx context.Context) ([]EmissionFactor, error)
	Upsert(ctx context.Context, activityType string, value float64) error
	SeedMissing(ctx context.Context, defaults map[string]float64) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates emission factor repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByType(ctx context.Context, activityType string) (*EmissionFactor, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var f EmissionFactor
	err := r.db.GetContext(ctx2, &f, `
		SELECT activity_type, factor, updated_at
		FROM emission_factors
		WHERE activity_type = $1
	`, activityType)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("factor repository get: %w", err)
	}
	return &f, nil
}

func (r *repository) List(ctx context.Context) ([]EmissionFactor, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	factors := make([]EmissionFactor, 0)
	err := r.db.SelectContext(ctx2, &factors, `
		SELECT activity_type, factor, updated_at
		FROM emission_factors
		ORDER BY activity_type
	`)
	if err != nil {
		return nil, fmt.Errorf("factor repository list: %w", err)
	}
	return factors, nil
}

func (r *repository) Upsert(ctx context.Context, activityType string, value float64) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO emission_factors (activity_type, factor, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (activity_type) DO UPDATE SET factor = $2, updated_at = NOW()
	`, activityType, value)
	if err != nil {
		return fmt.Errorf("factor repository upsert: %w", err)
	}
	return nil
}

// SeedMissing inserts defaults without overwriting administrative edits.
func (r *repository) SeedMissing(ctx context.Context, defaults map[string]float64) error {
	for activityType, value := range defaults {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO emission_factors (activity_type, factor, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (activity_type) DO NOTHING
		`, activityType, value)
		if err != nil {
			return fmt.Errorf("factor repository seed %q: %w", activityType, err)
		}
	}
	return nil
}
