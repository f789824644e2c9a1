package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/checkout/session"
	"github.com/stripe/stripe-go/v83/paymentintent"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

const eventCheckoutCompleted = "checkout.session.completed"

// StripeConfig holds the Stripe credentials and checkout redirect targets.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// StripeProvider implements Provider using Stripe.
type StripeProvider struct {
	config StripeConfig
}

// NewStripeProvider configures the Stripe SDK. The key is the account secret
// key (sk_test_... / sk_live_...); the webhook secret (whsec_...) verifies
// event signatures.
func NewStripeProvider(config StripeConfig) (*StripeProvider, error) {
	if config.SecretKey == "" {
		return nil, fmt.Errorf("stripe secret key is required")
	}

	stripe.Key = config.SecretKey

	return &StripeProvider{config: config}, nil
}

// ListRecentPayments pulls the newest payment intents with their latest
// charge expanded, so receipt and billing emails are available for routing.
func (p *StripeProvider) ListRecentPayments(ctx context.Context, limit int) ([]domain.PaymentRecord, error) {
	params := &stripe.PaymentIntentListParams{}
	params.Context = ctx
	params.Limit = stripe.Int64(int64(limit))
	params.AddExpand("data.latest_charge")

	var records []domain.PaymentRecord
	iter := paymentintent.List(params)
	for iter.Next() {
		records = append(records, toPaymentRecord(iter.PaymentIntent()))
		if len(records) >= limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}

	log.Printf("[BILLING] Pulled %d payments from Stripe", len(records))
	return records, nil
}

// CreateCheckoutSession opens a hosted checkout. Tenant routing metadata is
// stamped on both the session and the payment intent, so the webhook path
// and the sweep path can each resolve the payment independently.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, checkout CheckoutParams) (*CheckoutSession, error) {
	if checkout.PriceID == "" {
		return nil, fmt.Errorf("no price configured for tier %s", checkout.Tier)
	}

	metadata := map[string]string{
		domain.MetadataTenantID:   checkout.TenantID,
		domain.MetadataAdminEmail: checkout.AdminEmail,
		domain.MetadataTier:       checkout.Tier.String(),
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(checkout.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(p.config.SuccessURL),
		CancelURL:     stripe.String(p.config.CancelURL),
		CustomerEmail: stripe.String(checkout.AdminEmail),
		PaymentIntentData: &stripe.CheckoutSessionPaymentIntentDataParams{
			Metadata: metadata,
		},
	}
	params.Context = ctx
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	log.Printf("[BILLING] Created checkout session %s for tenant %s (%s)",
		sess.ID, checkout.TenantID, checkout.Tier)

	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

// ParseWebhook verifies the event signature and extracts completed checkouts.
func (p *StripeProvider) ParseWebhook(payload []byte, signature string) (*CheckoutCompleted, error) {
	event, err := webhook.ConstructEvent(payload, signature, p.config.WebhookSecret)
	if err != nil {
		return nil, fmt.Errorf("webhook signature verification failed: %w", err)
	}

	if string(event.Type) != eventCheckoutCompleted {
		return nil, nil
	}

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}

	completed := &CheckoutCompleted{
		SessionID: sess.ID,
		TenantID:  sess.Metadata[domain.MetadataTenantID],
	}
	if sess.PaymentIntent != nil {
		completed.PaymentID = sess.PaymentIntent.ID
	}
	if tier, err := domain.ParseTier(sess.Metadata[domain.MetadataTier]); err == nil {
		completed.Tier = tier
	} else {
		completed.Tier = domain.TierBase
	}

	return completed, nil
}

func toPaymentRecord(pi *stripe.PaymentIntent) domain.PaymentRecord {
	record := domain.PaymentRecord{
		ID:           pi.ID,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		ReceiptEmail: pi.ReceiptEmail,
		Metadata:     pi.Metadata,
		CreatedAt:    time.Unix(pi.Created, 0),
	}
	if charge := pi.LatestCharge; charge != nil {
		record.ChargeID = charge.ID
		if record.ReceiptEmail == "" {
			record.ReceiptEmail = charge.ReceiptEmail
		}
		if charge.BillingDetails != nil {
			record.CustomerEmail = charge.BillingDetails.Email
		}
	}
	return record
}
