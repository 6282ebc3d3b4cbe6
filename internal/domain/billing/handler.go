package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/middleware"
	"github.com/listify/listify-api/internal/pkg/response"
	"github.com/listify/listify-api/internal/pkg/stripe"
	"github.com/listify/listify-api/internal/pkg/validator"
)

const maxWebhookBody = 64 * 1024

type CheckoutRequest struct {
	PackageID string `json:"package_id" validate:"required"`
}

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes serves the authenticated billing surface.
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/packages", h.ListPackages)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Post("/checkout", h.CreateCheckout)
	})
	return r
}

// WebhookRoutes serves the unauthenticated payment provider callback.
func (h *Handler) WebhookRoutes() chi.Router {
	r := chi.NewRouter()
	r.Post("/stripe", h.StripeWebhook)
	return r
}

// StripeWebhook handles POST /webhooks/stripe
func (h *Handler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		response.BadRequest(w, "unreadable payload")
		return
	}

	err = h.service.HandleWebhook(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		switch {
		case errors.Is(err, stripe.ErrInvalidSignature):
			response.BadRequest(w, "invalid signature")
		case errors.Is(err, ErrInvalidWebhookEvent):
			response.BadRequest(w, "invalid event payload")
		default:
			log.Error().Err(err).Msg("webhook processing failed")
			response.InternalError(w)
		}
		return
	}

	response.JSON(w, http.StatusOK, map[string]bool{"received": true})
}

// ListPackages handles GET /billing/packages
func (h *Handler) ListPackages(w http.ResponseWriter, r *http.Request) {
	response.OK(w, Packages)
}

// CreateCheckout handles POST /billing/checkout
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	var req CheckoutRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	url, err := h.service.CreateCheckout(r.Context(), userID, req.PackageID)
	if err != nil {
		if errors.Is(err, ErrUnknownPackage) {
			response.BadRequest(w, "Unknown credit package")
			return
		}
		log.Error().Err(err).Msg("checkout creation failed")
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]string{"checkout_url": url})
}
