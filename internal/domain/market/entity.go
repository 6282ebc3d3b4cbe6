package market

// Data summarizes live marketplace listings for one search keyword. All
// fields are advisory: generation proceeds without them.
type Data struct {
	TopKeywords  []string `json:"top_keywords"`
	PopularTags  []string `json:"popular_tags"`
	AveragePrice float64  `json:"average_price"`
}
