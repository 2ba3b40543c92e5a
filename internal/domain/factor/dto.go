package factor

// UpsertRequest for PUT /factors
type UpsertRequest struct {
	ActivityType string  `json:"activity_type" validate:"required,min=1,max=100"`
	Factor       float64 `json:"factor"`
}

// FactorResponse represents a factor in API responses
type FactorResponse struct {
	ActivityType string  `json:"activity_type"`
	Factor       float64 `json:"factor"`
}

// FactorResponseFromEntity converts entity to response
func FactorResponseFromEntity(f *EmissionFactor) *FactorResponse {
	return &FactorResponse{
		ActivityType: f.ActivityType,
		Factor:       f.Factor,
	}
}
