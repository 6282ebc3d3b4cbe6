package storage

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// MaxPhotoSize is the upload limit for product photos
const MaxPhotoSize = 10 * 1024 * 1024 // 10 MB

// allowedPhotoTypes are the MIME types accepted for product photos
var allowedPhotoTypes = []string{"image/jpeg", "image/png", "image/webp"}

// ValidatePhoto reads a product photo upload, enforcing size and MIME type.
// MIME type is detected from content, not the filename.
func ValidatePhoto(reader io.Reader) ([]byte, string, error) {
	// Read limited to MaxPhotoSize + 1 to detect oversized files
	limitedReader := io.LimitReader(reader, MaxPhotoSize+1)
	data, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file: %w", err)
	}

	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}
	if int64(len(data)) > MaxPhotoSize {
		return nil, "", ErrFileTooLarge
	}

	// Detect MIME type from magic bytes
	mimeType := http.DetectContentType(data)
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	for _, t := range allowedPhotoTypes {
		if t == mimeType {
			return data, mimeType, nil
		}
	}
	return nil, "", ErrInvalidMimeType
}
