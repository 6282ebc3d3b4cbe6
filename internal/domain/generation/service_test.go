package generation_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/listify/listify-api/internal/domain/credit"
	"github.com/listify/listify-api/internal/domain/generation"
	"github.com/listify/listify-api/internal/domain/listing"
	"github.com/listify/listify-api/internal/domain/market"
)

type fakeLedger struct {
	balance     int
	balanceErr  error
	debitErr    error
	refundErr   error
	debits      []string
	refunds     []string
	debitAmount int
}

func (f *fakeLedger) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.balance, f.balanceErr
}

func (f *fakeLedger) Debit(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error {
	if f.debitErr != nil {
		return f.debitErr
	}
	f.debits = append(f.debits, referenceID)
	f.debitAmount = amount
	return nil
}

func (f *fakeLedger) Refund(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error {
	if f.refundErr != nil {
		return f.refundErr
	}
	f.refunds = append(f.refunds, referenceID)
	return nil
}

type fakeEnricher struct {
	data     *market.Data
	keywords []string
}

func (f *fakeEnricher) FetchSignals(ctx context.Context, keyword string) *market.Data {
	f.keywords = append(f.keywords, keyword)
	return f.data
}

type fakeGenerator struct {
	result     *listing.Result
	err        error
	seenMarket *market.Data
}

func (f *fakeGenerator) Generate(ctx context.Context, imageURL, description, productType, targetLanguage string, marketData *market.Data) (*listing.Result, error) {
	f.seenMarket = marketData
	return f.result, f.err
}

type fakeRecords struct {
	insertErr error
	inserted  []*generation.Record
}

func (f *fakeRecords) Insert(ctx context.Context, record *generation.Record) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, record)
	return nil
}

func (f *fakeRecords) GetByID(ctx context.Context, userID, id uuid.UUID) (*generation.Record, error) {
	for _, r := range f.inserted {
		if r.ID == id && r.UserID == userID {
			return r, nil
		}
	}
	return nil, generation.ErrNotFound
}

func (f *fakeRecords) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]generation.Record, error) {
	out := make([]generation.Record, 0)
	for _, r := range f.inserted {
		if r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func sampleResult() *listing.Result {
	return &listing.Result{
		Titles: []string{"t1", "t2", "t3", "t4", "t5"},
		Tags: []string{
			"a1", "a2", "a3", "a4", "a5", "a6", "a7", "a8", "a9", "a10",
			"a11", "a12", "a13",
		},
		Description: listing.Description{Hook: "hook", Included: "files", Disclaimer: "digital", CTA: "buy"},
		MockupPrompts: listing.MockupPrompts{
			WallArtMockupPrompt: "wall",
			VideoMockupPrompt:   "video",
		},
	}
}

func sampleRequest() *generation.GenerateRequest {
	return &generation.GenerateRequest{
		ImageURL:       "https://cdn.example.com/p.jpg",
		Description:    "A warm boho wall art print in neutral tones",
		ProductType:    "Digital Download",
		TargetLanguage: "English",
	}
}

func TestGenerateHappyPath(t *testing.T) {
	ledger := &fakeLedger{balance: 5}
	enricher := &fakeEnricher{data: &market.Data{AveragePrice: 15}}
	gen := &fakeGenerator{result: sampleResult()}
	records := &fakeRecords{}
	svc := generation.NewService(ledger, enricher, gen, records)

	resp, err := svc.Generate(context.Background(), uuid.New(), sampleRequest())
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !resp.Persisted {
		t.Error("expected persisted response")
	}
	if resp.Result == nil {
		t.Fatal("expected result")
	}
	if len(ledger.debits) != 1 {
		t.Fatalf("expected 1 debit, got %d", len(ledger.debits))
	}
	if ledger.debitAmount != generation.GenerationCost {
		t.Errorf("expected debit of %d, got %d", generation.GenerationCost, ledger.debitAmount)
	}
	if len(ledger.refunds) != 0 {
		t.Errorf("unexpected refunds: %v", ledger.refunds)
	}
	if len(records.inserted) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records.inserted))
	}
	if records.inserted[0].Status != generation.StatusCompleted {
		t.Errorf("expected completed status, got %s", records.inserted[0].Status)
	}
	if gen.seenMarket == nil || gen.seenMarket.AveragePrice != 15 {
		t.Error("market data not passed to generator")
	}
}

func TestGenerateKeywordIsFirstThreeWords(t *testing.T) {
	ledger := &fakeLedger{balance: 5}
	enricher := &fakeEnricher{}
	svc := generation.NewService(ledger, enricher, &fakeGenerator{result: sampleResult()}, &fakeRecords{})

	if _, err := svc.Generate(context.Background(), uuid.New(), sampleRequest()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if len(enricher.keywords) != 1 || enricher.keywords[0] != "A warm boho" {
		t.Fatalf("expected keyword from first three words, got %v", enricher.keywords)
	}
}

func TestGenerateRefundsOnModelFailure(t *testing.T) {
	ledger := &fakeLedger{balance: 5}
	gen := &fakeGenerator{err: listing.ErrGenerationFailed}
	records := &fakeRecords{}
	svc := generation.NewService(ledger, &fakeEnricher{}, gen, records)

	_, err := svc.Generate(context.Background(), uuid.New(), sampleRequest())
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
	if len(ledger.debits) != 1 || len(ledger.refunds) != 1 {
		t.Fatalf("expected 1 debit and 1 refund, got %d/%d", len(ledger.debits), len(ledger.refunds))
	}
	if ledger.debits[0] != ledger.refunds[0] {
		t.Errorf("refund reference %q does not match debit reference %q", ledger.refunds[0], ledger.debits[0])
	}
	if len(records.inserted) != 0 {
		t.Errorf("no record should be persisted on failure, got %d", len(records.inserted))
	}
}

func TestGenerateRefundFailureStillReturnsGenerationError(t *testing.T) {
	ledger := &fakeLedger{balance: 5, refundErr: errors.New("ledger down")}
	svc := generation.NewService(ledger, &fakeEnricher{}, &fakeGenerator{err: listing.ErrGenerationFailed}, &fakeRecords{})

	_, err := svc.Generate(context.Background(), uuid.New(), sampleRequest())
	if !errors.Is(err, listing.ErrGenerationFailed) {
		t.Fatalf("expected ErrGenerationFailed, got %v", err)
	}
}

func TestGenerateInsufficientCreditsAtDebit(t *testing.T) {
	ledger := &fakeLedger{balance: 5, debitErr: credit.ErrInsufficientCredits}
	svc := generation.NewService(ledger, &fakeEnricher{}, &fakeGenerator{result: sampleResult()}, &fakeRecords{})

	_, err := svc.Generate(context.Background(), uuid.New(), sampleRequest())
	if !errors.Is(err, credit.ErrInsufficientCredits) {
		t.Fatalf("expected ErrInsufficientCredits, got %v", err)
	}
	if len(ledger.refunds) != 0 {
		t.Error("nothing was debited, nothing should be refunded")
	}
}

func TestGeneratePersistenceFailureSwallowed(t *testing.T) {
	ledger := &fakeLedger{balance: 5}
	records := &fakeRecords{insertErr: errors.New("db down")}
	svc := generation.NewService(ledger, &fakeEnricher{}, &fakeGenerator{result: sampleResult()}, records)

	resp, err := svc.Generate(context.Background(), uuid.New(), sampleRequest())
	if err != nil {
		t.Fatalf("persistence failure must not fail the request: %v", err)
	}
	if resp.Persisted {
		t.Error("expected persisted=false")
	}
	if !strings.HasPrefix(resp.GenerationID, "temp_") {
		t.Errorf("expected placeholder id, got %q", resp.GenerationID)
	}
	if resp.Result == nil {
		t.Error("expected result despite persistence failure")
	}
	if len(ledger.refunds) != 0 {
		t.Error("successful generation must not be refunded")
	}
}

func TestGenerateNilMarketDataDoesNotAbort(t *testing.T) {
	ledger := &fakeLedger{balance: 5}
	gen := &fakeGenerator{result: sampleResult()}
	svc := generation.NewService(ledger, &fakeEnricher{data: nil}, gen, &fakeRecords{})

	if _, err := svc.Generate(context.Background(), uuid.New(), sampleRequest()); err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if gen.seenMarket != nil {
		t.Error("expected nil market data passed through")
	}
}

func TestCheckCredits(t *testing.T) {
	tests := []struct {
		name    string
		ledger  *fakeLedger
		wantErr error
	}{
		{"sufficient", &fakeLedger{balance: 1}, nil},
		{"zero balance", &fakeLedger{balance: 0}, credit.ErrInsufficientCredits},
		{"no balance row", &fakeLedger{balanceErr: credit.ErrNotFound}, credit.ErrInsufficientCredits},
		{"ledger read error", &fakeLedger{balanceErr: errors.New("db down")}, generation.ErrInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := generation.NewService(tt.ledger, &fakeEnricher{}, &fakeGenerator{}, &fakeRecords{})
			err := svc.CheckCredits(context.Background(), uuid.New())
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}
