package credit

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/listify/listify-api/internal/middleware"
	"github.com/listify/listify-api/internal/pkg/response"
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
	r.Get("/balance", h.GetBalance)
	r.Get("/transactions", h.ListTransactions)
	return r
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	balance, err := h.service.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// No row yet means the user simply hasn't any credits.
			response.OK(w, map[string]int{"balance": 0})
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, map[string]int{"balance": balance})
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	pagination := Pagination{Limit: 20}
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			pagination.Limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			pagination.Offset = n
		}
	}

	transactions, err := h.service.ListTransactions(r.Context(), userID, pagination)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, transactions)
}
