package offset

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles offset business logic
type Service struct {
	repo Repository
}

// NewService creates offset service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ListPrograms returns the program catalog
func (s *Service) ListPrograms(ctx context.Context) ([]Program, error) {
	return s.repo.ListPrograms(ctx)
}

// Offset funds an offset: credits_required = rate_per_kg x co2_amount,
// deducted exactly when affordable, with the transaction recorded atomically.
func (s *Service) Offset(ctx context.Context, userID uuid.UUID, req *OffsetRequest) (*OffsetResponse, error) {
	if req.CO2Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	program, err := s.repo.GetProgram(ctx, req.ProgramID)
	if err != nil {
		return nil, err
	}
	if program == nil {
		return nil, ErrProgramNotFound
	}

	result, err := s.repo.Offset(ctx, userID, program, req.CO2Amount)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", userID.String()).
		Str("program", program.Name).
		Float64("co2_offset", result.Transaction.CO2Offset).
		Float64("credits_used", result.Transaction.CreditsUsed).
		Float64("credits", result.Credits).
		Msg("Offset funded")

	return NewOffsetResponse(result, program.Name), nil
}

// Seed inserts the default programs when the catalog is empty
func (s *Service) Seed(ctx context.Context) error {
	count, err := s.repo.CountPrograms(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	now := time.Now()
	for _, p := range defaultPrograms() {
		p.ID = uuid.New()
		p.CreatedAt = now
		if err := s.repo.CreateProgram(ctx, &p); err != nil {
			return err
		}
	}

	log.Info().Msg("Default offset programs seeded")
	return nil
}
