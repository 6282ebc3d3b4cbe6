package credit

import "time"

// TxType defines supported ledger transaction types.
type TxType string

const (
	TxTypeDeduction TxType = "deduction"
	TxTypeRefund    TxType = "refund"
	TxTypePurchase  TxType = "purchase"
)

// Balance is one user's credit balance row.
type Balance struct {
	UserID    string    `db:"user_id" json:"user_id"`
	Balance   int       `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is a ledger row.
type Transaction struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	AmountDelta int       `db:"amount_delta" json:"amount_delta"`
	TxType      string    `db:"tx_type" json:"tx_type"`
	ReferenceID *string   `db:"reference_id" json:"reference_id,omitempty"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Pagination controls simple list pagination.
type Pagination struct {
	Limit  int
	Offset int
}
