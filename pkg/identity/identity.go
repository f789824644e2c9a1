// Package identity wraps the hosted Identity Service. Credentials never
// transit this service's own storage; account lifecycle and token
// verification are delegated entirely to the provider.
package identity

import "context"

// Account is a provisioned login account.
type Account struct {
	UID           string
	Email         string
	DisplayName   string
	EmailVerified bool
}

// Token is a verified dashboard session token.
type Token struct {
	UID   string
	Email string
}

// Service is the Identity Service surface the provisioner and the dashboard
// auth middleware depend on.
type Service interface {
	// CreateAccount registers email/password credentials and returns the
	// new account with its UID. The address starts unverified.
	CreateAccount(ctx context.Context, email, password, displayName string) (*Account, error)

	// DeleteAccount removes the account. Used as a provisioning
	// compensation.
	DeleteAccount(ctx context.Context, uid string) error

	// VerifyToken validates a bearer ID token and returns its identity.
	VerifyToken(ctx context.Context, idToken string) (*Token, error)
}
