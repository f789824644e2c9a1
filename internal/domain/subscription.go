package domain

import (
	"fmt"
	"time"
)

// Tier is the subscription plan level. It is stored as a string in the
// document store but only these values are valid.
type Tier string

const (
	TierFree       Tier = "free"
	TierBase       Tier = "base"
	TierWhiteLabel Tier = "white-label"
)

// ParseTier validates a stored or user-supplied tier string.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierBase, TierWhiteLabel:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown subscription tier %q", s)
}

// Paid reports whether the tier is a paying plan.
func (t Tier) Paid() bool {
	return t == TierBase || t == TierWhiteLabel
}

func (t Tier) String() string {
	return string(t)
}

// Subscription is the payments/subscriptions sub-document carried by both
// tenants and users. User-level counters are zero on tenant copies.
type Subscription struct {
	Tier              Tier      `json:"tier" firestore:"tier"`
	PaymentID         string    `json:"payment_id,omitempty" firestore:"paymentId,omitempty"`
	NumAddnlCompanies int       `json:"num_addnal_companies" firestore:"numAddnalCompanies"`
	NumAddnlMembers   int       `json:"num_addnal_members" firestore:"numAddnalMembers"`
	Processing        bool      `json:"processing" firestore:"processing"`
	UpdatedAt         time.Time `json:"updated_at" firestore:"updatedAt"`
}

// TierUpdate is the merge-write applied to a subscription sub-document when a
// payment is confirmed. Merge semantics keep sibling fields intact.
type TierUpdate struct {
	Tier      Tier
	PaymentID string
	UpdatedAt time.Time
}
