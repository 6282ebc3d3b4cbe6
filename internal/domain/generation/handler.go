package generation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/domain/credit"
	"github.com/listify/listify-api/internal/domain/listing"
	"github.com/listify/listify-api/internal/middleware"
	"github.com/listify/listify-api/internal/pkg/response"
	"github.com/listify/listify-api/internal/pkg/validator"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/generate", h.Generate)
	r.Get("/generations", h.List)
	r.Get("/generations/{id}", h.Get)
	return r
}

// Generate handles POST /generate. The balance gate runs before input
// validation so a broke user learns about credits first.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	if err := h.service.CheckCredits(r.Context(), userID); err != nil {
		if errors.Is(err, credit.ErrInsufficientCredits) {
			response.PaymentRequired(w, "Insufficient credits. Please purchase more.")
			return
		}
		log.Error().Err(err).Msg("balance check failed")
		response.InternalError(w)
		return
	}

	var req GenerateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Generate(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, credit.ErrInsufficientCredits):
			response.PaymentRequired(w, "Insufficient credits. Please purchase more.")
		case errors.Is(err, listing.ErrGenerationFailed):
			response.Error(w, http.StatusInternalServerError, "GENERATION_FAILED", "Listing generation failed. Your credit has been refunded.")
		default:
			log.Error().Err(err).Msg("generation pipeline failed")
			response.InternalError(w)
		}
		return
	}

	response.OK(w, resp)
}

// List handles GET /generations
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	limit, offset := 20, 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}

	records, err := h.service.ListRecords(r.Context(), userID, limit, offset)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, records)
}

// Get handles GET /generations/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid generation id")
		return
	}

	record, err := h.service.GetRecord(r.Context(), userID, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.NotFound(w, "Generation not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, record)
}
