package market_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/listify/listify-api/internal/domain/market"
	"github.com/listify/listify-api/internal/pkg/apify"
)

type fakeScraper struct {
	listings   []apify.Listing
	err        error
	configured bool
	calls      int
}

func (f *fakeScraper) Configured() bool { return f.configured }

func (f *fakeScraper) SearchListings(ctx context.Context, keyword string, maxItems int) ([]apify.Listing, error) {
	f.calls++
	return f.listings, f.err
}

func TestFetchSignalsAggregates(t *testing.T) {
	scraper := &fakeScraper{
		configured: true,
		listings: []apify.Listing{
			{Title: "Boho Wall Art Print", Price: "$10.00", Tags: []string{"boho", "wall art"}},
			{Title: "Boho Wall Decor", Price: "$20.00", Tags: []string{"boho"}},
		},
	}
	svc := market.NewService(scraper, nil, time.Hour)

	data := svc.FetchSignals(context.Background(), "boho wall art")
	if data == nil {
		t.Fatal("expected market data")
	}
	if data.AveragePrice != 15 {
		t.Errorf("expected average price 15, got %v", data.AveragePrice)
	}
	if len(data.TopKeywords) == 0 || data.TopKeywords[0] != "boho" {
		t.Errorf("unexpected keywords: %v", data.TopKeywords)
	}
	if len(data.PopularTags) == 0 || data.PopularTags[0] != "boho" {
		t.Errorf("unexpected tags: %v", data.PopularTags)
	}
}

func TestFetchSignalsScraperFailure(t *testing.T) {
	scraper := &fakeScraper{configured: true, err: errors.New("actor run failed")}
	svc := market.NewService(scraper, nil, time.Hour)

	if data := svc.FetchSignals(context.Background(), "boho"); data != nil {
		t.Fatalf("expected nil on scrape failure, got %+v", data)
	}
}

func TestFetchSignalsUnconfigured(t *testing.T) {
	scraper := &fakeScraper{configured: false}
	svc := market.NewService(scraper, nil, time.Hour)

	if data := svc.FetchSignals(context.Background(), "boho"); data != nil {
		t.Fatal("expected nil when scraper unconfigured")
	}
	if scraper.calls != 0 {
		t.Fatalf("scraper should not be called, got %d calls", scraper.calls)
	}
}

func TestFetchSignalsEmptyKeyword(t *testing.T) {
	scraper := &fakeScraper{configured: true}
	svc := market.NewService(scraper, nil, time.Hour)

	if data := svc.FetchSignals(context.Background(), "   "); data != nil {
		t.Fatal("expected nil for empty keyword")
	}
}

func TestFetchSignalsNoListings(t *testing.T) {
	scraper := &fakeScraper{configured: true}
	svc := market.NewService(scraper, nil, time.Hour)

	if data := svc.FetchSignals(context.Background(), "obscure thing"); data != nil {
		t.Fatal("expected nil when no listings found")
	}
}
