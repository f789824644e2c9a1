package repository

import (
	"context"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

// TenantRepository is the document-store surface for tenant documents and
// their payments/* sub-documents. Lookups return a NotFoundError from the
// domain package when the referenced document is absent.
type TenantRepository interface {
	// Create writes a new tenant document and assigns tenant.ID.
	Create(ctx context.Context, tenant *domain.Tenant) error
	// WriteSelfReference merges the tenant's own ID onto the document as
	// companyId, for convenience lookups from nested contexts.
	WriteSelfReference(ctx context.Context, tenantID string) error
	GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error)
	// Delete removes the tenant document. Used as a provisioning
	// compensation; sub-documents die with the parent reference.
	Delete(ctx context.Context, tenantID string) error

	SetSubscription(ctx context.Context, tenantID string, sub *domain.Subscription) error
	GetSubscription(ctx context.Context, tenantID string) (*domain.Subscription, error)
	// ApplyTierUpdate merge-writes tier, paymentId and updatedAt onto
	// payments/subscriptions without touching sibling fields.
	ApplyTierUpdate(ctx context.Context, tenantID string, update domain.TierUpdate) error
	SetCards(ctx context.Context, tenantID string, cards *domain.CardInfo) error
	SetBilling(ctx context.Context, tenantID string, billing *domain.BillingInfo) error

	AddVisitorLog(ctx context.Context, tenantID string, entry *domain.VisitorLog) error
	IncrementVisitorCount(ctx context.Context, tenantID string) error
	ListVisitorLogs(ctx context.Context, tenantID string, limit int) ([]domain.VisitorLog, error)
	ListConversations(ctx context.Context, tenantID string, limit int) ([]domain.Conversation, error)
	ListTickets(ctx context.Context, tenantID string, limit int) ([]domain.Ticket, error)
}
