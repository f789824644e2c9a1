package email

import "context"

// EmailService defines the transactional emails this service sends.
type EmailService interface {
	// SendWelcomeEmail greets a newly provisioned tenant admin.
	SendWelcomeEmail(ctx context.Context, to, name, companyName string) error

	// SendPaymentConfirmationEmail confirms a tier activation.
	SendPaymentConfirmationEmail(ctx context.Context, to, name, tier string) error
}

// EmailConfig holds email service configuration.
type EmailConfig struct {
	APIKey       string
	FromName     string
	FromEmail    string
	DashboardURL string
}
