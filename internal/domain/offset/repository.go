package offset

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

// Repository provides program catalog access and the atomic offset
// settlement.
type Repository interface {
	GetProgram(ctx context.Context, id uuid.UUID) (*Program, error)
	ListPrograms(ctx context.Context) ([]Program, error)
	CountPrograms(ctx context.Context) (int, error)
	CreateProgram(ctx context.Context, p *Program) error
	Offset(ctx context.Context, userID uuid.UUID, program *Program, co2Kg float64) (*Result, error)
	ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates offset repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetProgram(ctx context.Context, id uuid.UUID) (*Program, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p Program
	err := r.db.GetContext(ctx2, &p, `
		SELECT id, name, description, rate_per_kg, image, created_at
		FROM offset_programs
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get program", ErrInternal)
	}
	return &p, nil
}

func (r *repository) ListPrograms(ctx context.Context) ([]Program, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	programs := make([]Program, 0)
	err := r.db.SelectContext(ctx2, &programs, `
		SELECT id, name, description, rate_per_kg, image, created_at
		FROM offset_programs
		ORDER BY rate_per_kg
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: list programs", ErrInternal)
	}
	return programs, nil
}

func (r *repository) CountPrograms(ctx context.Context) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	if err := r.db.GetContext(ctx2, &count, `SELECT COUNT(*) FROM offset_programs`); err != nil {
		return 0, fmt.Errorf("%w: count programs", ErrInternal)
	}
	return count, nil
}

func (r *repository) CreateProgram(ctx context.Context, p *Program) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO offset_programs (id, name, description, rate_per_kg, image, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.Name, p.Description, p.RatePerKg, p.Image, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("%w: insert program", ErrInternal)
	}
	return nil
}

// Offset deducts the required credits and inserts the transaction record in
// one transaction. Affordability is validated under the row lock, so the
// deduction cannot drive the balance negative and no clamp applies here.
func (r *repository) Offset(ctx context.Context, userID uuid.UUID, program *Program, co2Kg float64) (*Result, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	required := program.RatePerKg * co2Kg

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	var credits float64
	err = tx.QueryRowContext(ctx2, `SELECT credits FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&credits)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("%w: lock user row", ErrInternal)
	}

	if credits < required {
		return nil, fmt.Errorf("%w: need %.2f but have %.2f", ErrInsufficientCredits, required, credits)
	}

	credits -= required
	if _, err := tx.ExecContext(ctx2, `
		UPDATE users SET credits = $2, updated_at = NOW() WHERE id = $1
	`, userID, credits); err != nil {
		return nil, fmt.Errorf("%w: update user credits", ErrInternal)
	}

	record := Transaction{
		ID:          uuid.New(),
		UserID:      userID,
		ProgramID:   program.ID,
		CO2Offset:   co2Kg,
		CreditsUsed: required,
		CreatedAt:   time.Now(),
	}
	if _, err := tx.ExecContext(ctx2, `
		INSERT INTO offset_transactions (id, user_id, program_id, co2_offset, credits_used, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.UserID, record.ProgramID, record.CO2Offset, record.CreditsUsed, record.CreatedAt); err != nil {
		return nil, fmt.Errorf("%w: insert offset transaction", ErrInternal)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return &Result{Transaction: record, Credits: credits}, nil
}

func (r *repository) ListTransactions(ctx context.Context, userID uuid.UUID) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	transactions := make([]Transaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT id, user_id, program_id, co2_offset, credits_used, created_at
		FROM offset_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: list offset transactions", ErrInternal)
	}
	return transactions, nil
}
