package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/middleware"
	"github.com/listify/listify-api/internal/pkg/response"
	"github.com/listify/listify-api/internal/pkg/validator"
)

// Handler handles auth HTTP requests
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Get("/me", h.Me)
	})
	return r
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	req.Email = normalizeEmail(req.Email)

	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrEmailAlreadyExists) {
			response.Conflict(w, "Email already registered")
			return
		}
		log.Error().Err(err).Msg("registration failed")
		response.InternalError(w)
		return
	}

	response.Created(w, resp)
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	req.Email = normalizeEmail(req.Email)

	if details := validator.Validate(req); details != nil {
		response.ValidationError(w, details)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		log.Error().Err(err).Msg("login failed")
		response.InternalError(w)
		return
	}

	response.OK(w, resp)
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	info, err := h.service.Me(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.NotFound(w, "User not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, info)
}
