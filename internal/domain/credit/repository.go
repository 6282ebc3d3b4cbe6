package credit

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

type Repository interface {
	EnsureBalance(ctx context.Context, userID uuid.UUID) error
	GetBalance(ctx context.Context, userID uuid.UUID) (int, error)
	Debit(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error
	Credit(ctx context.Context, userID uuid.UUID, amount int, txType TxType, referenceID, description string) error
	ListTransactions(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]Transaction, error)
}

// CreditRepository provides ledger and balance operations.
type CreditRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// EnsureBalance creates a zero balance row if none exists.
func (r *CreditRepository) EnsureBalance(ctx context.Context, userID uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO credits (user_id, balance)
		VALUES ($1, 0)
		ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("%w: ensure balance", ErrInternal)
	}
	return nil
}

func (r *CreditRepository) GetBalance(ctx context.Context, userID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var balance int
	err := r.db.GetContext(ctx2, &balance, `SELECT balance FROM credits WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("%w: get balance", ErrInternal)
	}

	return balance, nil
}

// Debit atomically decrements the balance when it covers the amount.
// The conditional UPDATE is the only debit path: two concurrent debits can
// never drive the stored balance negative.
func (r *CreditRepository) Debit(ctx context.Context, userID uuid.UUID, amount int, referenceID, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	applied, err := r.alreadyApplied(ctx2, tx, TxTypeDeduction, referenceID)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	result, err := tx.ExecContext(ctx2, `
		UPDATE credits
		SET balance = balance - $2, updated_at = now()
		WHERE user_id = $1 AND balance >= $2
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("%w: update balance", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrInsufficientCredits
	}

	if err := r.insertLedger(ctx2, tx, userID, -amount, TxTypeDeduction, referenceID, description); err != nil {
		if errors.Is(err, errDuplicateReference) {
			return nil
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

// Credit increments the balance, creating the row on first top-up. When
// referenceID is non-empty the operation is idempotent per (tx_type,
// reference_id): a replay is a no-op.
func (r *CreditRepository) Credit(ctx context.Context, userID uuid.UUID, amount int, txType TxType, referenceID, description string) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if txType != TxTypeRefund && txType != TxTypePurchase {
		return fmt.Errorf("%w: unsupported credit tx type %q", ErrInternal, txType)
	}

	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx2, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin tx", ErrInternal)
	}
	defer tx.Rollback()

	applied, err := r.alreadyApplied(ctx2, tx, txType, referenceID)
	if err != nil {
		return err
	}
	if applied {
		return nil
	}

	_, err = tx.ExecContext(ctx2, `
		INSERT INTO credits (user_id, balance)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET balance = credits.balance + EXCLUDED.balance, updated_at = now()
	`, userID, amount)
	if err != nil {
		return fmt.Errorf("%w: upsert balance", ErrInternal)
	}

	if err := r.insertLedger(ctx2, tx, userID, amount, txType, referenceID, description); err != nil {
		// Concurrent replay hit the unique (tx_type, reference_id) index
		// first; the rollback discards our balance update too.
		if errors.Is(err, errDuplicateReference) {
			return nil
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit tx", ErrInternal)
	}

	return nil
}

func (r *CreditRepository) ListTransactions(ctx context.Context, userID uuid.UUID, pagination Pagination) ([]Transaction, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	limit := pagination.Limit
	if limit <= 0 {
		limit = 20
	}

	transactions := make([]Transaction, 0)
	err := r.db.SelectContext(ctx2, &transactions, `
		SELECT id, user_id, amount_delta, tx_type, reference_id, description, created_at
		FROM credit_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, pagination.Offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions", ErrInternal)
	}

	return transactions, nil
}

var errDuplicateReference = errors.New("duplicate ledger reference")

func (r *CreditRepository) alreadyApplied(ctx context.Context, tx *sqlx.Tx, txType TxType, referenceID string) (bool, error) {
	if referenceID == "" {
		return false, nil
	}

	var exists bool
	err := tx.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM credit_transactions
			WHERE tx_type = $1 AND reference_id = $2
		)
	`, string(txType), referenceID)
	if err != nil {
		return false, fmt.Errorf("%w: check reference", ErrInternal)
	}
	return exists, nil
}

func (r *CreditRepository) insertLedger(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, amountDelta int, txType TxType, referenceID, description string) error {
	if strings.TrimSpace(description) == "" {
		description = "credit balance adjustment"
	}

	var ref interface{}
	if referenceID != "" {
		ref = referenceID
	}

	_, err := tx.ExecContext(ctx, `
		INSERT INTO credit_transactions (
			id, user_id, amount_delta, tx_type, reference_id, description
		)
		VALUES (
			gen_random_uuid(), $1, $2, $3, $4, $5
		)
	`, userID, amountDelta, string(txType), ref, description)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return errDuplicateReference
		}
		return fmt.Errorf("%w: insert transaction", ErrInternal)
	}

	return nil
}
