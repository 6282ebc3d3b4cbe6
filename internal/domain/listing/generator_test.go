package listing_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/listify/listify-api/internal/domain/listing"
	"github.com/listify/listify-api/internal/domain/market"
	"github.com/listify/listify-api/internal/pkg/openai"
)

type fakeChatClient struct {
	content string
	err     error
	lastReq openai.ChatRequest
}

func (f *fakeChatClient) CreateChatCompletion(ctx context.Context, req openai.ChatRequest) (string, error) {
	f.lastReq = req
	return f.content, f.err
}

func validModelOutput() string {
	result := listing.Result{
		Titles: []string{
			"Boho Wall Art Print Digital Download",
			"Printable Boho Decor Neutral Tones",
			"Minimalist Boho Poster Instant Download",
			"Abstract Boho Art Print for Living Room",
			"Modern Boho Wall Decor Printable",
		},
		Tags: []string{
			"boho wall art", "digital download", "printable art", "boho decor",
			"wall art print", "neutral decor", "instant download", "home decor",
			"minimalist art", "abstract print", "living room art", "boho print",
			"modern boho",
		},
		Description: listing.Description{
			Hook:       "Transform your space with this warm boho print.",
			Features:   []string{"High resolution 300 DPI", "Multiple aspect ratios"},
			Usage:      []string{"Download", "Print", "Frame"},
			Included:   "5 JPG files in standard ratios",
			Disclaimer: "Digital product, no physical item shipped.",
			CTA:        "Download now and style your wall today!",
		},
		MockupPrompts: listing.MockupPrompts{
			WallArtMockupPrompt: "Framed boho print above a linen sofa, soft morning light",
			VideoMockupPrompt:   "Slow pan across a styled living room wall with the print",
		},
	}
	raw, _ := json.Marshal(result)
	return string(raw)
}

func TestGenerateParsesModelOutput(t *testing.T) {
	client := &fakeChatClient{content: validModelOutput()}
	gen := listing.NewGenerator(client, "gpt-4o")

	result, err := gen.Generate(context.Background(), "https://cdn.example.com/p.jpg", "A warm boho art print", "Digital Download", "English", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(result.Titles) != 5 {
		t.Errorf("expected 5 titles, got %d", len(result.Titles))
	}
	if len(result.Tags) != 13 {
		t.Errorf("expected 13 tags, got %d", len(result.Tags))
	}
	if result.Description.Hook == "" {
		t.Error("expected description hook")
	}
}

func TestGenerateRequestShape(t *testing.T) {
	client := &fakeChatClient{content: validModelOutput()}
	gen := listing.NewGenerator(client, "gpt-4o")

	marketData := &market.Data{TopKeywords: []string{"boho"}, AveragePrice: 15}
	_, err := gen.Generate(context.Background(), "https://cdn.example.com/p.jpg", "A warm boho art print", "Digital Download", "English", marketData)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	req := client.lastReq
	if req.Model != "gpt-4o" {
		t.Errorf("unexpected model %q", req.Model)
	}
	if req.ResponseFormat == nil || req.ResponseFormat.Type != "json_object" {
		t.Error("expected json_object response format")
	}
	if len(req.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(req.Messages))
	}

	system, ok := req.Messages[0].Content.(string)
	if !ok {
		t.Fatal("system content should be a string")
	}
	if !strings.Contains(system, "A warm boho art print") {
		t.Error("system prompt missing product description")
	}
	if !strings.Contains(system, `"top_keywords":["boho"]`) {
		t.Errorf("system prompt missing market signals: %s", system)
	}

	parts, ok := req.Messages[1].Content.([]openai.ContentPart)
	if !ok {
		t.Fatal("user content should be content parts")
	}
	found := false
	for _, p := range parts {
		if p.Type == "image_url" && p.ImageURL != nil && p.ImageURL.URL == "https://cdn.example.com/p.jpg" {
			found = true
		}
	}
	if !found {
		t.Error("user message missing image part")
	}
}

func TestGeneratePromptWithoutMarketData(t *testing.T) {
	client := &fakeChatClient{content: validModelOutput()}
	gen := listing.NewGenerator(client, "gpt-4o")

	if _, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	system := client.lastReq.Messages[0].Content.(string)
	if !strings.Contains(system, "Market Signals: None") {
		t.Error("expected market signals to read None")
	}
}

func TestGenerateUpstreamError(t *testing.T) {
	client := &fakeChatClient{err: errors.New("rate limited")}
	gen := listing.NewGenerator(client, "gpt-4o")

	_, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil)
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateInvalidJSON(t *testing.T) {
	client := &fakeChatClient{content: "sorry, I can't do that"}
	gen := listing.NewGenerator(client, "gpt-4o")

	_, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil)
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateWrongTagCount(t *testing.T) {
	var result listing.Result
	if err := json.Unmarshal([]byte(validModelOutput()), &result); err != nil {
		t.Fatal(err)
	}
	result.Tags = result.Tags[:7]
	raw, _ := json.Marshal(result)

	client := &fakeChatClient{content: string(raw)}
	gen := listing.NewGenerator(client, "gpt-4o")

	_, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil)
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateLowercasesTags(t *testing.T) {
	var result listing.Result
	if err := json.Unmarshal([]byte(validModelOutput()), &result); err != nil {
		t.Fatal(err)
	}
	result.Tags[0] = "  Boho Wall Art  "
	raw, _ := json.Marshal(result)

	client := &fakeChatClient{content: string(raw)}
	gen := listing.NewGenerator(client, "gpt-4o")

	out, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if out.Tags[0] != "boho wall art" {
		t.Errorf("expected normalized tag, got %q", out.Tags[0])
	}
}

func TestGenerateOverlongTitle(t *testing.T) {
	var result listing.Result
	if err := json.Unmarshal([]byte(validModelOutput()), &result); err != nil {
		t.Fatal(err)
	}
	result.Titles[2] = strings.Repeat("x", 141)
	raw, _ := json.Marshal(result)

	client := &fakeChatClient{content: string(raw)}
	gen := listing.NewGenerator(client, "gpt-4o")

	_, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil)
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateRejectsTagSpecialChars(t *testing.T) {
	var result listing.Result
	if err := json.Unmarshal([]byte(validModelOutput()), &result); err != nil {
		t.Fatal(err)
	}
	result.Tags[4] = "boho-art!"
	raw, _ := json.Marshal(result)

	client := &fakeChatClient{content: string(raw)}
	gen := listing.NewGenerator(client, "gpt-4o")

	_, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "English", nil)
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateLimitsCountRunesNotBytes(t *testing.T) {
	var result listing.Result
	if err := json.Unmarshal([]byte(validModelOutput()), &result); err != nil {
		t.Fatal(err)
	}
	// 140 two-byte runes: 280 bytes, exactly at the title limit.
	result.Titles[0] = strings.Repeat("ğ", 140)
	// 20 two-byte runes, at the tag limit.
	result.Tags[0] = strings.Repeat("ş", 20)
	raw, _ := json.Marshal(result)

	client := &fakeChatClient{content: string(raw)}
	gen := listing.NewGenerator(client, "gpt-4o")

	out, err := gen.Generate(context.Background(), "https://x/p.jpg", "desc", "Sticker", "Turkish", nil)
	if err != nil {
		t.Fatalf("multi-byte titles and tags at the limit must pass: %v", err)
	}
	if out.Tags[0] != strings.Repeat("ş", 20) {
		t.Errorf("tag mangled: %q", out.Tags[0])
	}
}
