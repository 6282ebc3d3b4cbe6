package billing

import (
	"time"

	"github.com/google/uuid"
)

// Package is a purchasable credit bundle.
type Package struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Credits     int    `json:"credits"`
	AmountCents int64  `json:"amount_cents"`
}

// Packages is the fixed price table, in display order.
var Packages = []Package{
	{ID: "starter", Name: "Starter", Credits: 20, AmountCents: 900},
	{ID: "popular", Name: "Popular", Credits: 60, AmountCents: 1900},
	{ID: "pro", Name: "Pro", Credits: 200, AmountCents: 4900},
}

// PackageByID returns the package or nil for an unknown id.
func PackageByID(id string) *Package {
	for i := range Packages {
		if Packages[i].ID == id {
			return &Packages[i]
		}
	}
	return nil
}

// Transaction is one settled payment. stripe_payment_intent_id is unique:
// the insert doubles as the webhook replay guard.
type Transaction struct {
	ID                    uuid.UUID `db:"id" json:"id"`
	UserID                uuid.UUID `db:"user_id" json:"user_id"`
	StripePaymentIntentID string    `db:"stripe_payment_intent_id" json:"stripe_payment_intent_id"`
	AmountCents           int64     `db:"amount_cents" json:"amount_cents"`
	Credits               int       `db:"credits" json:"credits"`
	CreatedAt             time.Time `db:"created_at" json:"created_at"`
}
