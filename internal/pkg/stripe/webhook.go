package stripe

import (
	"encoding/json"
	"errors"
	"fmt"
)

// EventTypeCheckoutCompleted is the event emitted when a checkout session
// finishes payment
const EventTypeCheckoutCompleted = "checkout.session.completed"

// ErrInvalidSignature is returned when webhook signature verification fails
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Event is a webhook event envelope
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object json.RawMessage `json:"object"`
	} `json:"data"`
}

// CheckoutSession is the object carried by checkout.session.completed events
type CheckoutSession struct {
	ID            string            `json:"id"`
	PaymentIntent string            `json:"payment_intent"`
	AmountTotal   int64             `json:"amount_total"`
	Metadata      map[string]string `json:"metadata"`
}

// ConstructEvent verifies the signature header against the shared secret and
// parses the payload into an Event. No side effects on failure.
func ConstructEvent(payload []byte, sigHeader, secret string) (*Event, error) {
	if !VerifySignature(payload, sigHeader, secret, DefaultTolerance) {
		return nil, ErrInvalidSignature
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	return &event, nil
}

// CheckoutSession extracts the checkout session object from the event
func (e *Event) CheckoutSession() (*CheckoutSession, error) {
	if e.Type != EventTypeCheckoutCompleted {
		return nil, fmt.Errorf("event %s is not a checkout completion", e.Type)
	}

	var session CheckoutSession
	if err := json.Unmarshal(e.Data.Object, &session); err != nil {
		return nil, fmt.Errorf("failed to parse checkout session: %w", err)
	}

	return &session, nil
}
