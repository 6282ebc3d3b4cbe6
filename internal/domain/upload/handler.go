package upload

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/middleware"
	"github.com/listify/listify-api/internal/pkg/response"
	"github.com/listify/listify-api/internal/pkg/storage"
)

// multipart memory cap; larger parts spill to disk
const maxMultipartMemory = 12 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Post("/", h.UploadPhoto)
	return r
}

// UploadPhoto handles POST /uploads with a multipart "photo" field.
func (h *Handler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == uuid.Nil {
		response.Unauthorized(w, "authentication required")
		return
	}

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, _, err := r.FormFile("photo")
	if err != nil {
		response.BadRequest(w, "Missing photo file")
		return
	}
	defer file.Close()

	photo, err := h.service.UploadPhoto(r.Context(), userID, file)
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrFileTooLarge):
			response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "Photo exceeds the 10MB limit")
		case errors.Is(err, storage.ErrInvalidMimeType):
			response.BadRequest(w, "Photo must be JPEG, PNG or WebP")
		case errors.Is(err, storage.ErrEmptyFile):
			response.BadRequest(w, "Photo file is empty")
		default:
			log.Error().Err(err).Msg("photo upload failed")
			response.BadRequest(w, "Could not process photo")
		}
		return
	}

	response.Created(w, photo)
}
