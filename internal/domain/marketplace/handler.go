package marketplace

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/greenledger/greenledger-api/internal/middleware"
	"github.com/greenledger/greenledger-api/internal/pkg/response"
	"github.com/greenledger/greenledger-api/internal/pkg/validator"
)

// Handler handles marketplace HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates marketplace handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListOpen handles GET /marketplace
func (h *Handler) ListOpen(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listings, err := h.service.ListOpen(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list open listings")
		response.InternalError(w)
		return
	}

	items := make([]*ListingResponse, len(listings))
	for i := range listings {
		items[i] = ListingResponseFromEntity(&listings[i])
	}
	response.OK(w, items)
}

// ListMine handles GET /marketplace/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	listings, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		log.Error().Err(err).Msg("failed to list user listings")
		response.InternalError(w)
		return
	}

	items := make([]*ListingResponse, len(listings))
	for i := range listings {
		items[i] = ListingResponseFromEntity(&listings[i])
	}
	response.OK(w, items)
}

// Create handles POST /marketplace
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	sellerID := middleware.GetUserID(r.Context())
	listing, err := h.service.CreateListing(r.Context(), sellerID, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			response.BadRequest(w, err.Error())
		case errors.Is(err, ErrInsufficientCredits):
			response.PaymentRequired(w, err.Error())
		default:
			log.Error().Err(err).Str("seller_id", sellerID.String()).Msg("failed to create listing")
			response.InternalError(w)
		}
		return
	}

	response.Created(w, ListingResponseFromEntity(listing))
}

// Buy handles POST /marketplace/{id}/buy
func (h *Handler) Buy(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing id")
		return
	}

	buyerID := middleware.GetUserID(r.Context())
	result, err := h.service.Buy(r.Context(), buyerID, listingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, ErrSelfTrade):
			response.BadRequest(w, "You cannot buy your own listing")
		case errors.Is(err, ErrAlreadySold):
			response.Conflict(w, "This listing is already sold")
		case errors.Is(err, ErrNotAvailable):
			response.Conflict(w, "This listing is no longer available")
		case errors.Is(err, ErrInsufficientFunds):
			response.PaymentRequired(w, err.Error())
		default:
			log.Error().Err(err).
				Str("buyer_id", buyerID.String()).
				Str("listing_id", listingID.String()).
				Msg("failed to buy listing")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, &BuyResponse{
		TransactionID:      result.Transaction.ID,
		CreditsTransferred: result.Transaction.CreditsTransferred,
		TotalAmount:        result.Transaction.TotalAmount,
		Credits:            result.BuyerCredits,
		WalletBalance:      result.BuyerWallet,
	})
}

// Cancel handles POST /marketplace/{id}/cancel
func (h *Handler) Cancel(w http.ResponseWriter, r *http.Request) {
	listingID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid listing id")
		return
	}

	sellerID := middleware.GetUserID(r.Context())
	listing, err := h.service.Cancel(r.Context(), sellerID, listingID)
	if err != nil {
		switch {
		case errors.Is(err, ErrListingNotFound):
			response.NotFound(w, "Listing not found")
		case errors.Is(err, ErrNotOwner):
			response.Forbidden(w, "You can only cancel your own listings")
		case errors.Is(err, ErrAlreadySold):
			response.Conflict(w, "This listing is already sold")
		case errors.Is(err, ErrNotAvailable):
			response.Conflict(w, "This listing was already cancelled")
		default:
			log.Error().Err(err).
				Str("seller_id", sellerID.String()).
				Str("listing_id", listingID.String()).
				Msg("failed to cancel listing")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, ListingResponseFromEntity(listing))
}

// Routes returns marketplace router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/", h.ListOpen)
		r.Get("/mine", h.ListMine)
		r.Post("/", h.Create)
		r.Post("/{id}/buy", h.Buy)
		r.Post("/{id}/cancel", h.Cancel)
	})

	return r
}
