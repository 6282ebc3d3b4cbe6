package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"

	_ "image/png" // register decoders for image.Decode

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Config for product photo normalization
type Config struct {
	MaxWidth  int // default 2000
	MaxHeight int // default 2000
	Quality   int // JPEG quality 1-100 (default 85)
}

// DefaultConfig returns the default normalization config
func DefaultConfig() Config {
	return Config{
		MaxWidth:  2000,
		MaxHeight: 2000,
		Quality:   85,
	}
}

// Processor normalizes product photos before storage: downscale oversized
// images and re-encode as JPEG so the vision model gets a predictable input
type Processor struct {
	config Config
}

// NewProcessor creates a photo processor
func NewProcessor(config Config) *Processor {
	if config.MaxWidth <= 0 {
		config.MaxWidth = 2000
	}
	if config.MaxHeight <= 0 {
		config.MaxHeight = 2000
	}
	if config.Quality <= 0 || config.Quality > 100 {
		config.Quality = 85
	}
	return &Processor{config: config}
}

// NormalizedPhoto is the result of processing
type NormalizedPhoto struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
}

// Normalize decodes, downscales if needed, and re-encodes a product photo
func (p *Processor) Normalize(reader io.Reader) (*NormalizedPhoto, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	resized := img
	if bounds.Dx() > p.config.MaxWidth || bounds.Dy() > p.config.MaxHeight {
		resized = imaging.Fit(img, p.config.MaxWidth, p.config.MaxHeight, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: p.config.Quality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	out := resized.Bounds()
	return &NormalizedPhoto{
		Data:        buf.Bytes(),
		ContentType: "image/jpeg",
		Width:       out.Dx(),
		Height:      out.Dy(),
	}, nil
}
