package listing

import (
	"encoding/json"
	"fmt"

	"github.com/listify/listify-api/internal/domain/market"
)

const promptTemplate = `You are an expert Etsy listing optimizer. Generate a complete listing package for this product.

Product Image: [Provided by user]
Description: %s
Product Type: %s
Target Language: %s
Market Signals: %s

Return ONLY valid JSON matching this structure:
{
  "titles": ["title1", "title2", "title3", "title4", "title5"],
  "tags": ["tag1", ..., "tag13"],
  "description": {
    "hook": "...",
    "features": ["..."],
    "usage": ["..."],
    "included": "...",
    "disclaimer": "...",
    "cta": "..."
  },
  "mockup_prompts": {
    "wall_art_mockup_prompt": "...",
    "video_mockup_prompt": "..."
  }
}

Rules:
- Never hallucinate product details
- Use SEO-friendly language
- Keep titles under 140 characters
- Tags must be lowercase, no special characters, max 20 chars each
- Description must be scannable with bullet points
- Mockup prompts should be detailed for MidJourney/DALL-E`

// BuildSystemPrompt renders the generation instructions. marketData may be
// nil, in which case the signals section reads "None".
func BuildSystemPrompt(description, productType, targetLanguage string, marketData *market.Data) string {
	signals := "None"
	if marketData != nil {
		if raw, err := json.Marshal(marketData); err == nil {
			signals = string(raw)
		}
	}
	return fmt.Sprintf(promptTemplate, description, productType, targetLanguage, signals)
}
