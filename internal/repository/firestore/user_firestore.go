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

type UserRepository struct {
	client *firestore.Client
}

func NewUserRepository(client *firestore.Client) *UserRepository {
	return &UserRepository{client: client}
}

func (r *UserRepository) doc(userID string) *firestore.DocumentRef {
	return r.client.Collection(usersCollection).Doc(userID)
}

func (r *UserRepository) subscriptionDoc(userID string) *firestore.DocumentRef {
	return r.doc(userID).Collection(paymentsCollection).Doc(subscriptionsDocument)
}

// Create writes the user document under the Identity Service UID, which the
// caller must already have set on user.ID.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.ID == "" {
		return fmt.Errorf("user ID is required")
	}
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now
	if _, err := r.doc(user.ID).Set(ctx, user); err != nil {
		return fmt.Errorf("failed to create user document: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (*domain.User, error) {
	snap, err := r.doc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.NewNotFoundError("User not found")
		}
		return nil, fmt.Errorf("failed to load user %s: %w", userID, err)
	}
	var user domain.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", userID, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

// GetByEmail resolves a user by exact email match. A miss is (nil, nil), not
// an error, so callers can distinguish "unknown email" from a store failure.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("email", "==", email).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by email: %w", err)
	}
	var user domain.User
	if err := snap.DataTo(&user); err != nil {
		return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
	}
	user.ID = snap.Ref.ID
	return &user, nil
}

func (r *UserRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.doc(userID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	return nil
}

func (r *UserRepository) SetSubscription(ctx context.Context, userID string, sub *domain.Subscription) error {
	if _, err := r.subscriptionDoc(userID).Set(ctx, sub); err != nil {
		return fmt.Errorf("failed to set user subscription: %w", err)
	}
	return nil
}

func (r *UserRepository) GetSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	snap, err := r.subscriptionDoc(userID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.NewNotFoundError("User subscription not found")
		}
		return nil, fmt.Errorf("failed to load user subscription: %w", err)
	}
	var sub domain.Subscription
	if err := snap.DataTo(&sub); err != nil {
		return nil, fmt.Errorf("failed to decode user subscription: %w", err)
	}
	return &sub, nil
}

func (r *UserRepository) ApplyTierUpdate(ctx context.Context, userID string, update domain.TierUpdate) error {
	_, err := r.subscriptionDoc(userID).Set(ctx, map[string]interface{}{
		"tier":      string(update.Tier),
		"paymentId": update.PaymentID,
		"updatedAt": update.UpdatedAt,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to update user tier: %w", err)
	}
	return nil
}

func (r *UserRepository) ListByTenant(ctx context.Context, tenantID string) ([]*domain.User, error) {
	iter := r.client.Collection(usersCollection).
		Where("tenantList", "array-contains", tenantID).Documents(ctx)
	defer iter.Stop()

	var users []*domain.User
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to list tenant members: %w", err)
		}
		var user domain.User
		if err := snap.DataTo(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user %s: %w", snap.Ref.ID, err)
		}
		user.ID = snap.Ref.ID
		users = append(users, &user)
	}
	return users, nil
}
