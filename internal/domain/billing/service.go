package billing

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/listify/listify-api/internal/domain/user"
	"github.com/listify/listify-api/internal/pkg/email"
	"github.com/listify/listify-api/internal/pkg/stripe"
)

// CreditPurchaser credits a paid top-up, idempotent per payment intent.
type CreditPurchaser interface {
	Purchase(ctx context.Context, userID uuid.UUID, amount int, paymentIntentID, description string) error
}

// Mailer sends the purchase receipt.
type Mailer interface {
	Configured() bool
	Send(ctx context.Context, msg *email.Message) error
}

// CheckoutClient creates hosted checkout sessions.
type CheckoutClient interface {
	CreateCheckoutSession(ctx context.Context, params stripe.CheckoutParams) (*stripe.CheckoutSessionResponse, error)
}

type Service struct {
	transactions  TransactionRepository
	credits       CreditPurchaser
	users         user.Repository
	mailer        Mailer
	checkout      CheckoutClient
	webhookSecret string
	appURL        string
}

func NewService(
	transactions TransactionRepository,
	credits CreditPurchaser,
	users user.Repository,
	mailer Mailer,
	checkout CheckoutClient,
	webhookSecret string,
	appURL string,
) *Service {
	return &Service{
		transactions:  transactions,
		credits:       credits,
		users:         users,
		mailer:        mailer,
		checkout:      checkout,
		webhookSecret: webhookSecret,
		appURL:        appURL,
	}
}

// HandleWebhook verifies and processes one Stripe event. The transaction
// insert lands before any credit moves: a replayed event either hits the
// unique payment intent and re-runs the idempotent purchase, or is a fresh
// payment. Either way the user is credited exactly once.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := stripe.ConstructEvent(payload, sigHeader, s.webhookSecret)
	if err != nil {
		return stripe.ErrInvalidSignature
	}

	if event.Type != stripe.EventTypeCheckoutCompleted {
		log.Debug().Str("event_type", event.Type).Msg("ignoring webhook event")
		return nil
	}

	session, err := event.CheckoutSession()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidWebhookEvent, err)
	}

	userID, credits, err := parseSessionMetadata(session)
	if err != nil {
		return err
	}

	tx := &Transaction{
		ID:                    uuid.New(),
		UserID:                userID,
		StripePaymentIntentID: session.PaymentIntent,
		AmountCents:           session.AmountTotal,
		Credits:               credits,
	}
	if err := s.transactions.Insert(ctx, tx); err != nil {
		if !errors.Is(err, ErrDuplicatePayment) {
			return fmt.Errorf("%w: record payment", ErrInternal)
		}
		log.Info().
			Str("payment_intent_id", session.PaymentIntent).
			Msg("webhook replay for settled payment")
	}

	// Idempotent per payment intent: after a replay this is a no-op, after a
	// crash between insert and credit it completes the purchase.
	if err := s.credits.Purchase(ctx, userID, credits, session.PaymentIntent, "credit purchase"); err != nil {
		return fmt.Errorf("%w: credit purchase", ErrInternal)
	}

	log.Info().
		Str("user_id", userID.String()).
		Int("credits", credits).
		Str("payment_intent_id", session.PaymentIntent).
		Msg("payment processed")

	s.sendReceipt(ctx, userID, credits, session.AmountTotal, session.PaymentIntent)
	return nil
}

// CreateCheckout starts a hosted checkout for one of the fixed packages and
// returns the redirect URL.
func (s *Service) CreateCheckout(ctx context.Context, userID uuid.UUID, packageID string) (string, error) {
	pkg := PackageByID(packageID)
	if pkg == nil {
		return "", ErrUnknownPackage
	}

	session, err := s.checkout.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		ProductName: fmt.Sprintf("%d Listify Credits (%s)", pkg.Credits, pkg.Name),
		AmountCents: pkg.AmountCents,
		Currency:    "usd",
		Quantity:    1,
		SuccessURL:  s.appURL + "/create?purchase=success",
		CancelURL:   s.appURL + "/pricing",
		ClientRef:   userID.String(),
		Metadata: map[string]string{
			"userId":    userID.String(),
			"credits":   strconv.Itoa(pkg.Credits),
			"packageId": pkg.ID,
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: create checkout session", ErrInternal)
	}

	return session.URL, nil
}

func (s *Service) sendReceipt(ctx context.Context, userID uuid.UUID, credits int, amountCents int64, paymentIntentID string) {
	if s.mailer == nil || !s.mailer.Configured() {
		return
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("receipt skipped, user lookup failed")
		return
	}

	html, err := email.RenderReceipt(credits, amountCents, paymentIntentID, s.appURL)
	if err != nil {
		log.Warn().Err(err).Msg("receipt skipped, template render failed")
		return
	}

	msg := &email.Message{
		To:      u.Email,
		Subject: "Your Listify credits are ready",
		HTML:    html,
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		log.Warn().Err(err).Str("user_id", userID.String()).Msg("receipt email failed")
	}
}

func parseSessionMetadata(session *stripe.CheckoutSession) (uuid.UUID, int, error) {
	userID, err := uuid.Parse(session.Metadata["userId"])
	if err != nil {
		return uuid.Nil, 0, fmt.Errorf("%w: missing or invalid userId metadata", ErrInvalidWebhookEvent)
	}

	credits, err := strconv.Atoi(session.Metadata["credits"])
	if err != nil || credits <= 0 {
		return uuid.Nil, 0, fmt.Errorf("%w: missing or invalid credits metadata", ErrInvalidWebhookEvent)
	}

	return userID, credits, nil
}
