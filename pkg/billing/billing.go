// Package billing wraps the hosted Billing Provider. Payments are read-only
// inputs here: the provider owns checkout and charging, this service only
// lists confirmed payments and routes webhooks.
package billing

import (
	"context"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

// CheckoutParams describes a hosted checkout for one tenant and tier. The
// tenant and admin email ride along as payment metadata so the webhook and
// the verification sweep can route the payment back.
type CheckoutParams struct {
	TenantID   string
	AdminEmail string
	Tier       domain.Tier
	PriceID    string
}

// CheckoutSession is the hosted checkout the browser is redirected to.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutCompleted is the parsed outcome of a checkout-completion webhook.
// Nil for event types this service ignores.
type CheckoutCompleted struct {
	SessionID string
	PaymentID string
	TenantID  string
	Tier      domain.Tier
}

// Provider is the Billing Provider surface the payment workflows depend on.
type Provider interface {
	// ListRecentPayments pulls up to limit payments, newest first, with
	// charge details attached.
	ListRecentPayments(ctx context.Context, limit int) ([]domain.PaymentRecord, error)

	// CreateCheckoutSession opens a hosted checkout for the given tier.
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)

	// ParseWebhook verifies a webhook signature and extracts a completed
	// checkout, or (nil, nil) for events this service does not handle.
	ParseWebhook(payload []byte, signature string) (*CheckoutCompleted, error)
}
