package ledger

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/greenledger/greenledger-api/internal/domain/user"
)

const dateFormat = "2006-01-02"

// FactorSource resolves activity types to emission factors
type FactorSource interface {
	FactorFor(ctx context.Context, activityType string) float64
}

// Service is the credit-ledger computation engine: it converts logged
// activities into emission values and applies them to the user's balance.
type Service struct {
	repo     Repository
	userRepo user.Repository
	factors  FactorSource
}

// NewService creates ledger service
func NewService(repo Repository, userRepo user.Repository, factors FactorSource) *Service {
	return &Service{repo: repo, userRepo: userRepo, factors: factors}
}

// RecordActivities applies a batch of activities: emission = amount x
// factor, credits reduced by emission/1000 clamped at zero, activity and
// emission rows appended. The whole batch commits atomically.
func (s *Service) RecordActivities(ctx context.Context, userID uuid.UUID, req *RecordActivitiesRequest) (*RecordActivitiesResponse, error) {
	now := time.Now()
	entries := make([]Entry, 0, len(req.Activities))
	recorded := make([]RecordedActivity, 0, len(req.Activities))
	var totalEmission float64

	for _, in := range req.Activities {
		if strings.TrimSpace(in.ActivityType) == "" {
			continue // skip empty form rows
		}
		if !isFinite(in.Amount) {
			return nil, fmt.Errorf("%w: amount must be finite", ErrInternal)
		}

		date, err := parseDate(in.Date, now)
		if err != nil {
			return nil, err
		}

		factor := s.factors.FactorFor(ctx, in.ActivityType)
		emission := in.Amount * factor
		totalEmission += emission

		entry := Entry{
			Activity: Activity{
				ID:           uuid.New(),
				UserID:       userID,
				ActivityType: in.ActivityType,
				Description:  in.Description,
				Amount:       in.Amount,
				Unit:         in.Unit,
				Date:         date,
				CreatedAt:    now,
			},
			Emission: emission,
		}
		entries = append(entries, entry)
		recorded = append(recorded, RecordedActivity{
			ID:           entry.Activity.ID,
			ActivityType: in.ActivityType,
			Amount:       in.Amount,
			Unit:         in.Unit,
			Date:         date.Format(dateFormat),
			Emission:     emission,
		})
	}

	var credits float64
	if len(entries) > 0 {
		var err error
		credits, err = s.repo.ApplyEntries(ctx, userID, entries)
		if err != nil {
			return nil, err
		}
	} else if u, err := s.userRepo.GetByID(ctx, userID); err == nil && u != nil {
		credits = u.Credits
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("activities", len(entries)).
		Float64("total_emission", totalEmission).
		Float64("credits", credits).
		Msg("Activities recorded")

	return &RecordActivitiesResponse{
		Recorded:      recorded,
		TotalEmission: totalEmission,
		Credits:       credits,
	}, nil
}

// DailyEmission returns the user's total emission for one date. Re-querying
// the same date returns the same value; nothing is recomputed or deducted.
func (s *Service) DailyEmission(ctx context.Context, userID uuid.UUID, dateStr string) (*DailyEmissionResponse, error) {
	date, err := time.Parse(dateFormat, dateStr)
	if err != nil {
		return nil, ErrInvalidDate
	}

	total, count, err := s.repo.DailyEmission(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoActivities, dateStr)
	}

	return &DailyEmissionResponse{Date: dateStr, Emission: total}, nil
}

// ListActivities returns history newest first with emission and running
// remaining-credits per row, walking down from the current balance.
func (s *Service) ListActivities(ctx context.Context, userID uuid.UUID, dateStr string) ([]ActivityView, error) {
	var date *time.Time
	if dateStr != "" {
		d, err := time.Parse(dateFormat, dateStr)
		if err != nil {
			return nil, ErrInvalidDate
		}
		date = &d
	}

	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}

	activities, err := s.repo.ListByUser(ctx, userID, date)
	if err != nil {
		return nil, err
	}

	views := make([]ActivityView, 0, len(activities))
	remaining := u.Credits
	for _, a := range activities {
		emission := a.Amount * s.factors.FactorFor(ctx, a.ActivityType)
		remaining -= emission / 1000
		views = append(views, ActivityView{
			ID:               a.ID,
			Date:             a.Date.Format(dateFormat),
			ActivityType:     a.ActivityType,
			Description:      a.Description,
			Amount:           a.Amount,
			Unit:             a.Unit,
			Emission:         round2(emission),
			RemainingCredits: round3(remaining),
		})
	}
	return views, nil
}

func parseDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	date, err := time.Parse(dateFormat, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return date, nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
func round3(f float64) float64 { return math.Round(f*1000) / 1000 }
