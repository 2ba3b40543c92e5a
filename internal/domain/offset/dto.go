package offset

import (
	"time"

	"github.com/google/uuid"
)

// OffsetRequest for POST /offset
type OffsetRequest struct {
	ProgramID uuid.UUID `json:"program_id" validate:"required"`
	CO2Amount float64   `json:"co2_amount" validate:"required,gt=0"` // kg
}

// ProgramResponse represents a program in API responses
type ProgramResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	RatePerKg   float64   `json:"rate_per_kg"`
	Image       string    `json:"image"`
}

// ProgramResponseFromEntity converts entity to response
func ProgramResponseFromEntity(p *Program) *ProgramResponse {
	return &ProgramResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		RatePerKg:   p.RatePerKg,
		Image:       p.Image,
	}
}

// OffsetResponse for POST /offset
type OffsetResponse struct {
	TransactionID uuid.UUID `json:"transaction_id"`
	ProgramName   string    `json:"program_name"`
	CO2Offset     float64   `json:"co2_offset"`
	CreditsUsed   float64   `json:"credits_used"`
	Credits       float64   `json:"credits"` // balance after deduction
	CreatedAt     string    `json:"created_at"`
}

// NewOffsetResponse builds the response from a settlement result
func NewOffsetResponse(result *Result, programName string) *OffsetResponse {
	return &OffsetResponse{
		TransactionID: result.Transaction.ID,
		ProgramName:   programName,
		CO2Offset:     result.Transaction.CO2Offset,
		CreditsUsed:   result.Transaction.CreditsUsed,
		Credits:       result.Credits,
		CreatedAt:     result.Transaction.CreatedAt.Format(time.RFC3339),
	}
}
