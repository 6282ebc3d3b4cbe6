package credit

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service exposes credit balance and ledger operations to other domains.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) EnsureBalance(ctx context.Context, userID uuid.UUID) error {
	return s.repo.EnsureBalance(ctx, userID)
}

func (s *Service) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.GetBalance(ctx, userID)
}

// Debit charges the user's balance for a generation attempt. referenceID keys
// retries of the same attempt to a single charge.
func (s *Service) Debit(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error {
	if err := s.repo.Debit(ctx, userID, amount, referenceID, description); err != nil {
		return err
	}

	log.Debug().
		Str("user_id", userID.String()).
		Int("amount", amount).
		Str("reference_id", referenceID).
		Msg("credits debited")

	return nil
}

// Refund returns previously debited credits. Keyed by the originating
// attempt's referenceID so a retried refund never double-credits.
func (s *Service) Refund(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error {
	if err := s.repo.Credit(ctx, userID, amount, TxTypeRefund, referenceID, description); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("amount", amount).
		Str("reference_id", referenceID).
		Msg("credits refunded")

	return nil
}

// Purchase credits a paid top-up, keyed by the payment intent id.
func (s *Service) Purchase(ctx context.Context, userID uuid.UUID, amount int, paymentIntentID, description string) error {
	if err := s.repo.Credit(ctx, userID, amount, TxTypePurchase, paymentIntentID, description); err != nil {
		return err
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("amount", amount).
		Str("payment_intent_id", paymentIntentID).
		Msg("credits purchased")

	return nil
}

func (s *Service) ListTransactions(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, pagination)
}
