package identity

import (
	"context"
	"fmt"
	"log"

	"firebase.google.com/go/v4/auth"
)

// FirebaseService implements Service on top of Firebase Auth.
type FirebaseService struct {
	client *auth.Client
}

func NewFirebaseService(client *auth.Client) *FirebaseService {
	return &FirebaseService{client: client}
}

func (s *FirebaseService) CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName).
		EmailVerified(false)

	record, err := s.client.CreateUser(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity for %s: %w", email, err)
	}

	log.Printf("[IDENTITY] Created account %s for %s", record.UID, email)

	return &Account{
		UID:           record.UID,
		Email:         email,
		DisplayName:   displayName,
		EmailVerified: false,
	}, nil
}

func (s *FirebaseService) DeleteAccount(ctx context.Context, uid string) error {
	if err := s.client.DeleteUser(ctx, uid); err != nil {
		return fmt.Errorf("failed to delete identity %s: %w", uid, err)
	}
	log.Printf("[IDENTITY] Deleted account %s", uid)
	return nil
}

func (s *FirebaseService) VerifyToken(ctx context.Context, idToken string) (*Token, error) {
	token, err := s.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("invalid ID token: %w", err)
	}

	email, _ := token.Claims["email"].(string)

	return &Token{
		UID:   token.UID,
		Email: email,
	}, nil
}
