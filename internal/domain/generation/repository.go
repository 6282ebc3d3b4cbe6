package generation

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const queryTimeout = 3 * time.Second

type RecordRepository interface {
	Insert(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, userID, id uuid.UUID) (*Record, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Record, error)
}

type recordRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) RecordRepository {
	return &recordRepository{db: db}
}

func (r *recordRepository) Insert(ctx context.Context, record *Record) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO generations (id, user_id, status, input_data, output_data, credits_used)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, record.ID, record.UserID, string(record.Status), string(record.InputData), nullableJSON(record.OutputData), record.CreditsUsed)
	if err != nil {
		return fmt.Errorf("%w: insert generation", ErrInternal)
	}

	return nil
}

func (r *recordRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*Record, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var record Record
	err := r.db.GetContext(ctx2, &record, `
		SELECT id, user_id, status, input_data, output_data, credits_used, created_at, updated_at
		FROM generations
		WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get generation", ErrInternal)
	}

	return &record, nil
}

func (r *recordRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]Record, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 20
	}

	records := make([]Record, 0)
	err := r.db.SelectContext(ctx2, &records, `
		SELECT id, user_id, status, input_data, output_data, credits_used, created_at, updated_at
		FROM generations
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%w: list generations", ErrInternal)
	}

	return records, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}
