package offset

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

// Handler handles offset HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates offset handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListPrograms handles GET /offset/programs
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	programs, err := h.service.ListPrograms(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("failed to list offset programs")
		response.InternalError(w)
		return
	}

	items := make([]*ProgramResponse, len(programs))
	for i := range programs {
		items[i] = ProgramResponseFromEntity(&programs[i])
	}
	response.OK(w, items)
}

// Offset handles POST /offset
func (h *Handler) Offset(w http.ResponseWriter, r *http.Request) {
	var req OffsetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	result, err := h.service.Offset(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrProgramNotFound):
			response.NotFound(w, "Offset program not found")
		case errors.Is(err, ErrInsufficientCredits):
			response.PaymentRequired(w, err.Error())
		default:
			log.Error().Err(err).Str("user_id", userID.String()).Msg("failed to fund offset")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Routes returns offset router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/programs", h.ListPrograms)
		r.Post("/", h.Offset)
	})

	return r
}
