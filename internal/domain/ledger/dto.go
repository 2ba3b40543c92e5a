package ledger

import "github.com/google/uuid"

// ActivityInput is one row of the activity entry form. Rows with an empty
// activity type are skipped, matching the multi-row form behavior.
type ActivityInput struct {
	ActivityType string  `json:"activity_type" validate:"max=100"`
	Description  string  `json:"description" validate:"max=2000"`
	Amount       float64 `json:"amount" validate:"gte=0"`
	Unit         string  `json:"unit" validate:"max=50"`
	Date         string  `json:"date" validate:"dateformat"` // empty = today
}

// RecordActivitiesRequest for POST /activities
type RecordActivitiesRequest struct {
	Activities []ActivityInput `json:"activities" validate:"required,min=1,dive"`
}

// RecordedActivity is one applied entry in the response
type RecordedActivity struct {
	ID           uuid.UUID `json:"id"`
	ActivityType string    `json:"activity_type"`
	Amount       float64   `json:"amount"`
	Unit         string    `json:"unit"`
	Date         string    `json:"date"`
	Emission     float64   `json:"emission"` // kg CO2e
}

// RecordActivitiesResponse for POST /activities
type RecordActivitiesResponse struct {
	Recorded      []RecordedActivity `json:"recorded"`
	TotalEmission float64            `json:"total_emission"` // kg CO2e
	Credits       float64            `json:"credits"`        // new balance, tonnes
}

// DailyEmissionResponse for GET /emissions/daily
type DailyEmissionResponse struct {
	Date     string  `json:"date"`
	Emission float64 `json:"emission"` // kg CO2e
}

// ActivityView is one history row with the running balance after it
type ActivityView struct {
	ID               uuid.UUID `json:"id"`
	Date             string    `json:"date"`
	ActivityType     string    `json:"activity_type"`
	Description      string    `json:"description,omitempty"`
	Amount           float64   `json:"amount"`
	Unit             string    `json:"unit"`
	Emission         float64   `json:"emission"` // kg CO2e
	RemainingCredits float64   `json:"remaining_credits"`
}
