package generation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/domain/credit"
	"github.com/listify/listify-api/internal/domain/listing"
	"github.com/listify/listify-api/internal/domain/market"
)

// CreditLedger is the slice of the credit service the saga needs.
type CreditLedger interface {
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error
	Refund(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error
}

// Enricher provides best-effort market signals.
type Enricher interface {
	FetchSignals(ctx context.Context, keyword string) *market.Data
}

// Generator produces the listing package.
type Generator interface {
	Generate(ctx context.Context, imageURL, description, productType, targetLanguage string, marketData *market.Data) (*listing.Result, error)
}

// Service runs the debit -> enrich -> generate -> persist pipeline with a
// compensating refund when generation fails after the debit.
type Service struct {
	ledger    CreditLedger
	enricher  Enricher
	generator Generator
	records   RecordRepository
}

func NewService(ledger CreditLedger, enricher Enricher, generator Generator, records RecordRepository) *Service {
	return &Service{
		ledger:    ledger,
		enricher:  enricher,
		generator: generator,
		records:   records,
	}
}

// CheckCredits reports whether the user can afford one generation. A missing
// balance row counts as zero.
func (s *Service) CheckCredits(ctx context.Context, userID uuid.UUID) error {
	balance, err := s.ledger.GetBalance(ctx, userID)
	if err != nil {
		if errors.Is(err, credit.ErrNotFound) {
			return credit.ErrInsufficientCredits
		}
		return fmt.Errorf("%w: check balance", ErrInternal)
	}
	if balance < GenerationCost {
		return credit.ErrInsufficientCredits
	}
	return nil
}

// Generate runs one paid generation attempt. The attempt id keys both the
// debit and any compensating refund, so a retried refund credits at most once.
func (s *Service) Generate(ctx context.Context, userID uuid.UUID, req *GenerateRequest) (*GenerateResponse, error) {
	attemptID := uuid.New()
	reference := attemptReference(attemptID)

	err := s.ledger.Debit(ctx, userID, GenerationCost, reference, "listing generation")
	if err != nil {
		if errors.Is(err, credit.ErrInsufficientCredits) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: debit credits", ErrInternal)
	}

	marketData := s.enricher.FetchSignals(ctx, searchKeyword(req.Description))

	result, err := s.generator.Generate(ctx, req.ImageURL, req.Description, req.ProductType, req.TargetLanguage, marketData)
	if err != nil {
		s.refund(ctx, userID, reference)
		return nil, err
	}

	record, err := s.buildRecord(attemptID, userID, req, result)
	if err == nil {
		err = s.records.Insert(ctx, record)
	}
	if err != nil {
		// The user paid and got a result; losing the history row must not
		// turn that into an error response.
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("attempt_id", attemptID.String()).
			Msg("generation result not persisted")
		return &GenerateResponse{
			GenerationID: "temp_" + attemptID.String(),
			Result:       result,
			Persisted:    false,
		}, nil
	}

	return &GenerateResponse{
		GenerationID: attemptID.String(),
		Result:       result,
		Persisted:    true,
	}, nil
}

func (s *Service) GetRecord(ctx context.Context, userID, id uuid.UUID) (*Record, error) {
	return s.records.GetByID(ctx, userID, id)
}

func (s *Service) ListRecords(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Record, error) {
	return s.records.ListByUser(ctx, userID, limit, offset)
}

func (s *Service) refund(ctx context.Context, userID uuid.UUID, reference string) {
	if err := s.ledger.Refund(ctx, userID, GenerationCost, reference, "generation failed"); err != nil {
		// The debit stands with no result delivered. This needs operator
		// attention, not just a warning line.
		log.Error().
			Err(err).
			Str("user_id", userID.String()).
			Str("reference_id", reference).
			Int("amount", GenerationCost).
			Msg("DATA INTEGRITY: compensating refund failed, user charged without result")
	}
}

func (s *Service) buildRecord(id, userID uuid.UUID, req *GenerateRequest, result *listing.Result) (*Record, error) {
	input, err := json.Marshal(Input{
		ImageURL:       req.ImageURL,
		Description:    req.Description,
		ProductType:    req.ProductType,
		TargetLanguage: req.TargetLanguage,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal input: %w", err)
	}

	output, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("marshal output: %w", err)
	}

	return &Record{
		ID:          id,
		UserID:      userID,
		Status:      StatusCompleted,
		InputData:   input,
		OutputData:  output,
		CreditsUsed: GenerationCost,
	}, nil
}

func attemptReference(attemptID uuid.UUID) string {
	return "gen_" + attemptID.String()
}

// searchKeyword picks the scraper search term: the first three words of the
// product description.
func searchKeyword(description string) string {
	words := strings.Fields(description)
	if len(words) > 3 {
		words = words[:3]
	}
	return strings.Join(words, " ")
}
