package listing

// Result is the complete generated listing package.
type Result struct {
	Titles        []string      `json:"titles"`
	Tags          []string      `json:"tags"`
	Description   Description   `json:"description"`
	MockupPrompts MockupPrompts `json:"mockup_prompts"`
}

// Description holds the scannable listing description sections.
type Description struct {
	Hook       string   `json:"hook"`
	Features   []string `json:"features"`
	Usage      []string `json:"usage"`
	Included   string   `json:"included"`
	Disclaimer string   `json:"disclaimer"`
	CTA        string   `json:"cta"`
}

// MockupPrompts are image generation prompts for product mockups.
type MockupPrompts struct {
	WallArtMockupPrompt string `json:"wall_art_mockup_prompt"`
	VideoMockupPrompt   string `json:"video_mockup_prompt"`
}
