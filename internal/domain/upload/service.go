package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/pkg/imaging"
	"github.com/listify/listify-api/internal/pkg/storage"
)

// Service validates, normalizes and stores product photos.
type Service struct {
	storage   storage.Storage
	processor *imaging.Processor
}

func NewService(store storage.Storage, processor *imaging.Processor) *Service {
	return &Service{storage: store, processor: processor}
}

// UploadedPhoto describes a stored product photo.
type UploadedPhoto struct {
	Key    string `json:"key"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// UploadPhoto validates and normalizes the image, then stores it under a
// per-user key. The returned URL is what generation requests reference.
func (s *Service) UploadPhoto(ctx context.Context, userID uuid.UUID, reader io.Reader) (*UploadedPhoto, error) {
	data, _, err := storage.ValidatePhoto(reader)
	if err != nil {
		return nil, err
	}

	photo, err := s.processor.Normalize(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("products/%s/%s.jpg", userID, uuid.New())
	if err := s.storage.Put(ctx, key, bytes.NewReader(photo.Data), photo.ContentType); err != nil {
		return nil, fmt.Errorf("store photo: %w", err)
	}

	log.Debug().
		Str("user_id", userID.String()).
		Str("key", key).
		Int("width", photo.Width).
		Int("height", photo.Height).
		Msg("product photo stored")

	return &UploadedPhoto{
		Key:    key,
		URL:    s.storage.GetURL(key),
		Width:  photo.Width,
		Height: photo.Height,
	}, nil
}
