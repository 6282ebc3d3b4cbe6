package market

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/pkg/apify"
)

const maxListings = 20

// Scraper fetches live marketplace listings for a keyword.
type Scraper interface {
	Configured() bool
	SearchListings(ctx context.Context, keyword string, maxItems int) ([]apify.Listing, error)
}

// Service aggregates scraped listings into market signals. Results are
// cached in Redis when a client is configured.
type Service struct {
	scraper  Scraper
	redis    *redis.Client // nil if Redis disabled
	cacheTTL time.Duration
}

func NewService(scraper Scraper, redisClient *redis.Client, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 6 * time.Hour
	}
	return &Service{scraper: scraper, redis: redisClient, cacheTTL: cacheTTL}
}

// FetchSignals returns market data for the keyword, or nil when the scraper
// is unconfigured or fails. It never returns an error: enrichment is
// best-effort and must not block the caller.
func (s *Service) FetchSignals(ctx context.Context, keyword string) *Data {
	keyword = strings.TrimSpace(strings.ToLower(keyword))
	if keyword == "" || s.scraper == nil || !s.scraper.Configured() {
		return nil
	}

	if cached := s.fromCache(ctx, keyword); cached != nil {
		return cached
	}

	listings, err := s.scraper.SearchListings(ctx, keyword, maxListings)
	if err != nil {
		log.Warn().Err(err).Str("keyword", keyword).Msg("market scrape failed")
		return nil
	}
	if len(listings) == 0 {
		return nil
	}

	titles := make([]string, 0, len(listings))
	prices := make([]string, 0, len(listings))
	tagLists := make([][]string, 0, len(listings))
	for _, l := range listings {
		titles = append(titles, l.Title)
		prices = append(prices, l.Price)
		tagLists = append(tagLists, l.Tags)
	}

	data := &Data{
		TopKeywords:  ExtractTopKeywords(titles),
		PopularTags:  PopularTags(tagLists),
		AveragePrice: AveragePrice(prices),
	}

	s.toCache(ctx, keyword, data)
	return data
}

func (s *Service) fromCache(ctx context.Context, keyword string) *Data {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, cacheKey(keyword)).Bytes()
	if err != nil {
		return nil
	}

	var data Data
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil
	}
	return &data
}

func (s *Service) toCache(ctx context.Context, keyword string, data *Data) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, cacheKey(keyword), raw, s.cacheTTL).Err(); err != nil {
		log.Debug().Err(err).Str("keyword", keyword).Msg("market cache write failed")
	}
}

func cacheKey(keyword string) string {
	return "market:signals:" + keyword
}
