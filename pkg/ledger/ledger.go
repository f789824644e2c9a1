// Package ledger keeps the payment reconciliation bookkeeping in Redis: an
// advisory ledger of processed payment IDs shared by every reconciliation
// path, and a log of user/tenant tier writes that diverged so the sweep can
// repair them. Tier writes themselves stay idempotent merges; losing this
// data never corrupts the store, it only costs audit precision.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	processedKeyPrefix  = "payments:processed:"
	divergenceKeyPrefix = "payments:divergence:"

	// Processed marks only guard audit double-counting; they can expire.
	processedTTL = 90 * 24 * time.Hour
)

// Divergence records a payment whose user-side tier write landed but whose
// tenant-side write failed.
type Divergence struct {
	ID        string `redis:"id"`
	PaymentID string `redis:"paymentId"`
	UserID    string `redis:"userId"`
	TenantID  string `redis:"tenantId"`
	Tier      string `redis:"tier"`
}

// PaymentLedger is the Redis-backed reconciliation ledger.
type PaymentLedger struct {
	redis *redis.Client
}

func NewPaymentLedger(redisClient *redis.Client) *PaymentLedger {
	return &PaymentLedger{redis: redisClient}
}

// MarkProcessed records that a payment ID has driven a tier update.
func (l *PaymentLedger) MarkProcessed(ctx context.Context, paymentID string) error {
	key := processedKeyPrefix + paymentID

	if err := l.redis.Set(ctx, key, "1", processedTTL).Err(); err != nil {
		return fmt.Errorf("failed to mark payment %s processed: %w", paymentID, err)
	}
	return nil
}

// WasProcessed reports whether any reconciliation path already handled the
// payment.
func (l *PaymentLedger) WasProcessed(ctx context.Context, paymentID string) (bool, error) {
	key := processedKeyPrefix + paymentID

	exists, err := l.redis.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check payment ledger: %w", err)
	}
	return exists > 0, nil
}

// RecordDivergence logs a failed tenant-side tier write for later repair.
func (l *PaymentLedger) RecordDivergence(ctx context.Context, d Divergence) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	key := divergenceKeyPrefix + d.ID

	if err := l.redis.HSet(ctx, key, d).Err(); err != nil {
		return fmt.Errorf("failed to record tier divergence: %w", err)
	}
	return nil
}

// Divergences returns every outstanding divergence.
func (l *PaymentLedger) Divergences(ctx context.Context) ([]Divergence, error) {
	keys, err := l.redis.Keys(ctx, divergenceKeyPrefix+"*").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list divergences: %w", err)
	}

	divergences := make([]Divergence, 0, len(keys))
	for _, key := range keys {
		var d Divergence
		if err := l.redis.HGetAll(ctx, key).Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to read divergence %s: %w", key, err)
		}
		divergences = append(divergences, d)
	}
	return divergences, nil
}

// ClearDivergence removes a repaired divergence.
func (l *PaymentLedger) ClearDivergence(ctx context.Context, id string) error {
	key := divergenceKeyPrefix + id

	if err := l.redis.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to clear divergence %s: %w", id, err)
	}
	return nil
}
