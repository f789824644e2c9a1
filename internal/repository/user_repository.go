package repository

import (
	"context"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

// UserRepository is the document-store surface for user documents. The
// document ID is the Identity Service UID, set by the caller.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	// GetByEmail resolves a user by exact email match. Returns (nil, nil)
	// when no user matches; errors are reserved for store failures.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// Delete removes the user document. Used as a provisioning compensation.
	Delete(ctx context.Context, userID string) error

	SetSubscription(ctx context.Context, userID string, sub *domain.Subscription) error
	GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error)
	ApplyTierUpdate(ctx context.Context, userID string, update domain.TierUpdate) error

	// ListByTenant returns every user whose tenantList contains tenantID.
	ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error)
}
