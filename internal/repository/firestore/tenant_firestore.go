package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
)

// Collection and document names of the persisted layout.
const (
	companiesCollection   = "companies"
	usersCollection       = "users"
	paymentsCollection    = "payments"
	subscriptionsDocument = "subscriptions"
	cardsDocument         = "cards"
	billingDocument       = "billing"
	visitorLogsCollection = "visitorLogs"
	conversationsCol      = "conversations"
	ticketsCollection     = "tickets"
)

type TenantRepository struct {
	client *firestore.Client
}

func NewTenantRepository(client *firestore.Client) *TenantRepository {
	return &TenantRepository{client: client}
}

func (r *TenantRepository) doc(tenantID string) *firestore.DocumentRef {
	return r.client.Collection(companiesCollection).Doc(tenantID)
}

func (r *TenantRepository) subscriptionDoc(tenantID string) *firestore.DocumentRef {
	return r.doc(tenantID).Collection(paymentsCollection).Doc(subscriptionsDocument)
}

// Create writes a new tenant document with a generated ID and assigns it to
// tenant.ID. The companyId self-reference is written separately.
func (r *TenantRepository) Create(ctx context.Context, tenant *domain.Tenant) error {
	ref := r.client.Collection(companiesCollection).NewDoc()
	if tenant.CreatedAt.IsZero() {
		tenant.CreatedAt = time.Now()
	}
	if _, err := ref.Set(ctx, tenant); err != nil {
		return fmt.Errorf("failed to create tenant document: %w", err)
	}
	tenant.ID = ref.ID
	return nil
}

// WriteSelfReference merges the document's own ID onto it as companyId.
func (r *TenantRepository) WriteSelfReference(ctx context.Context, tenantID string) error {
	_, err := r.doc(tenantID).Set(ctx, map[string]interface{}{
		"companyId": tenantID,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to write tenant self-reference: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	snap, err := r.doc(tenantID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.NewNotFoundError("Tenant not found")
		}
		return nil, fmt.Errorf("failed to load tenant %s: %w", tenantID, err)
	}
	var tenant domain.Tenant
	if err := snap.DataTo(&tenant); err != nil {
		return nil, fmt.Errorf("failed to decode tenant %s: %w", tenantID, err)
	}
	tenant.ID = snap.Ref.ID
	return &tenant, nil
}

func (r *TenantRepository) Delete(ctx context.Context, tenantID string) error {
	if _, err := r.doc(tenantID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete tenant %s: %w", tenantID, err)
	}
	return nil
}

func (r *TenantRepository) SetSubscription(ctx context.Context, tenantID string, sub *domain.Subscription) error {
	if _, err := r.subscriptionDoc(tenantID).Set(ctx, sub); err != nil {
		return fmt.Errorf("failed to set tenant subscription: %w", err)
	}
	return nil
}

func (r *TenantRepository) GetSubscription(ctx context.Context, tenantID string) (*domain.Subscription, error) {
	snap, err := r.subscriptionDoc(tenantID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.NewNotFoundError("Tenant subscription not found")
		}
		return nil, fmt.Errorf("failed to load tenant subscription: %w", err)
	}
	var sub domain.Subscription
	if err := snap.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode tenant subscription: %w", err)
	}
	return &sub, nil
}

// ApplyTierUpdate merge-writes the tier fields so sibling fields survive.
// Last write wins on concurrent updates, which is safe because every writer
// of these fields writes the same confirmed state.
func (r *TenantRepository) ApplyTierUpdate(ctx context.Context, tenantID string, update domain.TierUpdate) error {
	_, err := r.subscriptionDoc(tenantID).Set(ctx, map[string]interface{}{
		"tier":      string(update.Tier),
		"paymentId": update.PaymentID,
		"updatedAt": update.UpdatedAt,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update tenant tier: %w", err)
	}
	return nil
}

func (r *TenantRepository) SetCards(ctx context.Context, tenantID string, cards *domain.CardInfo) error {
	ref := r.doc(tenantID).Collection(paymentsCollection).Doc(cardsDocument)
	if _, err := ref.Set(ctx, cards); err != nil {
		return fmt.Errorf("failed to set tenant cards document: %w", err)
	}
	return nil
}

func (r *TenantRepository) SetBilling(ctx context.Context, tenantID string, billing *domain.BillingInfo) error {
	ref := r.doc(tenantID).Collection(paymentsCollection).Doc(billingDocument)
	if _, err := ref.Set(ctx, billing); err != nil {
		return fmt.Errorf("failed to set tenant billing document: %w", err)
	}
	return nil
}

func (r *TenantRepository) AddVisitorLog(ctx context.Context, tenantID string, entry *domain.VisitorLog) error {
	ref := r.doc(tenantID).Collection(visitorLogsCollection).NewDoc()
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	if _, err := ref.Set(ctx, entry); err != nil {
		return fmt.Errorf("failed to write visitor log: %w", err)
	}
	entry.ID = ref.ID
	return nil
}

func (r *TenantRepository) IncrementVisitorCount(ctx context.Context, tenantID string) error {
	_, err := r.doc(tenantID).Update(ctx, []firestore.Update{
		{Path: "visitorCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return fmt.Errorf("failed to increment visitor count: %w", err)
	}
	return nil
}

func (r *TenantRepository) ListVisitorLogs(ctx context.Context, tenantID string, limit int) ([]domain.VisitorLog, error) {
	iter := r.doc(tenantID).Collection(visitorLogsCollection).
		OrderBy("at", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var logs []domain.VisitorLog
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list visitor logs: %w", err)
		}
		var entry domain.VisitorLog
		if err := snap.DataTo(&entry); err != nil {
			return nil, fmt.Errorf("failed to decode visitor log %s: %w", snap.Ref.ID, err)
		}
		entry.ID = snap.Ref.ID
		logs = append(logs, entry)
	}
	return logs, nil
}

func (r *TenantRepository) ListConversations(ctx context.Context, tenantID string, limit int) ([]domain.Conversation, error) {
	iter := r.doc(tenantID).Collection(conversationsCol).
		OrderBy("updatedAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var conversations []domain.Conversation
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list conversations: %w", err)
		}
		var conv domain.Conversation
		if err := snap.DataTo(&conv); err != nil {
			return nil, fmt.Errorf("failed to decode conversation %s: %w", snap.Ref.ID, err)
		}
		conv.ID = snap.Ref.ID
		conversations = append(conversations, conv)
	}
	return conversations, nil
}

func (r *TenantRepository) ListTickets(ctx context.Context, tenantID string, limit int) ([]domain.Ticket, error) {
	iter := r.doc(tenantID).Collection(ticketsCollection).
		OrderBy("updatedAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var tickets []domain.Ticket
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tickets: %w", err)
		}
		var ticket domain.Ticket
		if err := snap.DataTo(&ticket); err != nil {
			return nil, fmt.Errorf("failed to decode ticket %s: %w", snap.Ref.ID, err)
		}
		ticket.ID = snap.Ref.ID
		tickets = append(tickets, ticket)
	}
	return tickets, nil
}
