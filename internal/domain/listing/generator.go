package listing

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/domain/market"
	"github.com/listify/listify-api/internal/pkg/openai"
)

const (
	expectedTitles = 5
	expectedTags   = 13
	maxTitleLen    = 140
	maxTagLen      = 20
	maxTokens      = 1500
)

// ChatClient is the model call the generator depends on.
type ChatClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatRequest) (string, error)
}

// Generator produces listing packages from a product photo and description.
type Generator struct {
	client ChatClient
	model  string
}

func NewGenerator(client ChatClient, model string) *Generator {
	if model == "" {
		model = "gpt-4o"
	}
	return &Generator{client: client, model: model}
}

// Generate calls the vision model and parses its JSON output into a Result.
// Any upstream or structural failure maps to ErrGenerationFailed so callers
// can refund the attempt without inspecting the cause.
func (g *Generator) Generate(ctx context.Context, imageURL, description, productType, targetLanguage string, marketData *market.Data) (*Result, error) {
	req := openai.ChatRequest{
		Model: g.model,
		Messages: []openai.Message{
			{
				Role:    "system",
				Content: BuildSystemPrompt(description, productType, targetLanguage, marketData),
			},
			{
				Role: "user",
				Content: []openai.ContentPart{
					{Type: "text", Text: "Generate the listing for this image."},
					{Type: "image_url", ImageURL: &openai.ImageURL{URL: imageURL}},
				},
			},
		},
		MaxTokens:      maxTokens,
		ResponseFormat: &openai.ResponseFormat{Type: "json_object"},
	}

	content, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Error().Err(err).Msg("model call failed")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	var result Result
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		log.Error().Err(err).Msg("model returned unparseable JSON")
		return nil, fmt.Errorf("%w: invalid JSON output", ErrGenerationFailed)
	}

	normalize(&result)
	if err := validate(&result); err != nil {
		log.Error().Err(err).Msg("model output failed structural checks")
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}

	return &result, nil
}

// normalize lowercases and trims tags before validation. Models frequently
// return "Wall Art" where "wall art" was asked for.
func normalize(r *Result) {
	for i, tag := range r.Tags {
		r.Tags[i] = strings.ToLower(strings.TrimSpace(tag))
	}
	for i, title := range r.Titles {
		r.Titles[i] = strings.TrimSpace(title)
	}
}

func validate(r *Result) error {
	if len(r.Titles) != expectedTitles {
		return fmt.Errorf("expected %d titles, got %d", expectedTitles, len(r.Titles))
	}
	for _, title := range r.Titles {
		if title == "" {
			return fmt.Errorf("empty title")
		}
		if utf8.RuneCountInString(title) > maxTitleLen {
			return fmt.Errorf("title exceeds %d characters", maxTitleLen)
		}
	}

	if len(r.Tags) != expectedTags {
		return fmt.Errorf("expected %d tags, got %d", expectedTags, len(r.Tags))
	}
	for _, tag := range r.Tags {
		if tag == "" {
			return fmt.Errorf("empty tag")
		}
		if utf8.RuneCountInString(tag) > maxTagLen {
			return fmt.Errorf("tag %q exceeds %d characters", tag, maxTagLen)
		}
		if !tagCharsValid(tag) {
			return fmt.Errorf("tag %q contains special characters", tag)
		}
	}

	if r.Description.Hook == "" {
		return fmt.Errorf("missing description hook")
	}
	if r.MockupPrompts.WallArtMockupPrompt == "" || r.MockupPrompts.VideoMockupPrompt == "" {
		return fmt.Errorf("missing mockup prompts")
	}

	return nil
}

// tagCharsValid enforces the alphanumeric-plus-spaces tag contract. Letters
// outside ASCII are fine: Turkish listings tag in Turkish.
func tagCharsValid(tag string) bool {
	for _, r := range tag {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			continue
		}
		return false
	}
	return true
}
