package factor

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/greenledger/greenledger-api/internal/pkg/response"
	"github.com/greenledger/greenledger-api/internal/pkg/validator"
)

// Handler handles emission factor HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates factor handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /factors
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	factors, err := h.service.List(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list emission factors")
		response.InternalError(w)
		return
	}

	items := make([]*FactorResponse, len(factors))
	for i := range factors {
		items[i] = FactorResponseFromEntity(&factors[i])
	}

	response.OK(w, items)
}

// Upsert handles PUT /factors (admin)
func (h *Handler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.Upsert(r.Context(), req.ActivityType, req.Factor); err != nil {
		log.Error().Err(err).Str("activity_type", req.ActivityType).Msg("failed to upsert emission factor")
		response.InternalError(w)
		return
	}

	response.OK(w, &FactorResponse{ActivityType: req.ActivityType, Factor: req.Factor})
}

// Routes returns factor router
func (h *Handler) Routes(authMiddleware, adminMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.List)
		r.With(adminMiddleware).Put("/", h.Upsert)
	})

	return r
}
