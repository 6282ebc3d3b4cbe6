package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

type TransactionRepository interface {
	Insert(ctx context.Context, tx *Transaction) error
}

type transactionRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Insert records a settled payment. A second insert with the same payment
// intent id returns ErrDuplicatePayment.
func (r *transactionRepository) Insert(ctx context.Context, tx *Transaction) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO transactions (id, user_id, stripe_payment_intent_id, amount_cents, credits)
		VALUES ($1, $2, $3, $4, $5)
	`, tx.ID, tx.UserID, tx.StripePaymentIntentID, tx.AmountCents, tx.Credits)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("%w: insert transaction", ErrInternal)
	}

	return nil
}
