package ledger

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/greenledger/greenledger-api/internal/middleware"
	"github.com/greenledger/greenledger-api/internal/pkg/response"
	"github.com/greenledger/greenledger-api/internal/pkg/validator"
)

// Handler handles ledger HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates ledger handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Record handles POST /activities
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordActivitiesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.service.RecordActivities(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to record activities")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, result)
}

// List handles GET /activities?date=YYYY-MM-DD
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	views, err := h.service.ListActivities(r.Context(), userID, r.URL.Query().Get("date"))
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrUserNotFound):
			response.NotFound(w, "User not found")
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list activities")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, views)
}

// Daily handles GET /emissions/daily?date=YYYY-MM-DD
func (h *Handler) Daily(w http.ResponseWriter, r *http.Request) {
	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		response.BadRequest(w, "date query parameter is required")
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.service.DailyEmission(r.Context(), userID, dateStr)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDate):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrNoActivities):
			response.NotFound(w, err.Error())
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to compute daily emission")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// ActivityRoutes returns the /activities router
func (h *Handler) ActivityRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/", h.Record)
		r.Get("/", h.List)
	})
	return r
}

// EmissionRoutes returns the /emissions router
func (h *Handler) EmissionRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/daily", h.Daily)
	})
	return r
}
