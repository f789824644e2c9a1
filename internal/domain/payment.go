package domain

import "time"

// PaymentRecord is the slice of a Billing Provider payment this service
// consumes. Records are ephemeral: they drive tier mutation and are never
// persisted verbatim.
type PaymentRecord struct {
	ID            string            `json:"id"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	Status        string            `json:"status"`
	ReceiptEmail  string            `json:"receipt_email,omitempty"`
	CustomerEmail string            `json:"customer_email,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	ChargeID      string            `json:"charge_id,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

// Payment metadata keys the verifier understands. The checkout flow stamps
// these onto the session so the webhook and the sweep can route the payment.
const (
	MetadataAdminEmail = "adminEmail"
	MetadataTenantID   = "tenantId"
	MetadataTier       = "tier"
)

// AdminEmail returns the routing email for this payment: the adminEmail
// metadata hint first, then the receipt email, then the customer email.
func (p *PaymentRecord) AdminEmail() string {
	if email := p.Metadata[MetadataAdminEmail]; email != "" {
		return email
	}
	if p.ReceiptEmail != "" {
		return p.ReceiptEmail
	}
	return p.CustomerEmail
}

// TargetTier resolves which paid tier this payment buys. Unknown or missing
// metadata falls back to the base plan.
func (p *PaymentRecord) TargetTier() Tier {
	if t, err := ParseTier(p.Metadata[MetadataTier]); err == nil && t.Paid() {
		return t
	}
	return TierBase
}

// VerificationSummary accumulates the outcome of one verification sweep.
// Successful + Failed + Unresolved always equals Total.
type VerificationSummary struct {
	Total            int `json:"total"`
	Successful       int `json:"successful"`
	Failed           int `json:"failed"`
	Unresolved       int `json:"unresolved"`
	UpdatedUsers     int `json:"updated_users"`
	AlreadyProcessed int `json:"already_processed"`
}

// ReconcileResult confirms a by-tenant reconciliation.
type ReconcileResult struct {
	TenantID   string `json:"tenant_id"`
	UserID     string `json:"user_id"`
	AdminEmail string `json:"admin_email"`
	PaymentID  string `json:"payment_id"`
	Tier       Tier   `json:"tier"`
}

// TierComparison is the diagnostic view of a user/tenant tier pair.
type TierComparison struct {
	Email      string `json:"email"`
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id,omitempty"`
	UserTier   Tier   `json:"user_tier"`
	TenantTier Tier   `json:"tenant_tier,omitempty"`
	TiersMatch bool   `json:"tiers_match"`
}
