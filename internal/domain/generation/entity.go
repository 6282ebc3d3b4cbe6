package generation

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Status of a generation record.
type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// GenerationCost is the fixed price of one generation attempt, in credits.
const GenerationCost = 1

// Record is one persisted generation attempt.
type Record struct {
	ID          uuid.UUID       `db:"id" json:"id"`
	UserID      uuid.UUID       `db:"user_id" json:"user_id"`
	Status      Status          `db:"status" json:"status"`
	InputData   json.RawMessage `db:"input_data" json:"input_data"`
	OutputData  json.RawMessage `db:"output_data" json:"output_data,omitempty"`
	CreditsUsed int             `db:"credits_used" json:"credits_used"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}

// Input is what the user submitted, stored verbatim on the record.
type Input struct {
	ImageURL       string `json:"image_url"`
	Description    string `json:"description"`
	ProductType    string `json:"product_type"`
	TargetLanguage string `json:"target_language"`
}
