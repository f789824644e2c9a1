package email

import (
	"context"
	"fmt"
	"log"

	"github.com/resend/resend-go/v2"
)

// ResendEmailService implements EmailService using Resend
type ResendEmailService struct {
	client *resend.Client
	config *EmailConfig
}

// NewResendEmailService creates a new Resend email service
func NewResendEmailService(config *EmailConfig) (*ResendEmailService, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("resend API key is required")
	}

	if config.FromEmail == "" {
		return nil, fmt.Errorf("from email is required")
	}

	client := resend.NewClient(config.APIKey)

	return &ResendEmailService{
		client: client,
		config: config,
	}, nil
}

// SendWelcomeEmail greets a newly provisioned tenant admin
func (s *ResendEmailService) SendWelcomeEmail(ctx context.Context, to, name, companyName string) error {
	htmlContent := WelcomeEmailTemplate(name, companyName, s.config.DashboardURL)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: fmt.Sprintf("Welcome to BizChat, %s!", companyName),
		Html:    htmlContent,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("Failed to send welcome email to %s: %v", to, err)
		return fmt.Errorf("failed to send welcome email: %w", err)
	}

	log.Printf("Welcome email sent successfully to %s (ID: %s)", to, sent.Id)
	return nil
}

// SendPaymentConfirmationEmail confirms a tier activation
func (s *ResendEmailService) SendPaymentConfirmationEmail(ctx context.Context, to, name, tier string) error {
	htmlContent := PaymentConfirmationTemplate(name, tier, s.config.DashboardURL)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.config.FromName, s.config.FromEmail),
		To:      []string{to},
		Subject: "Your BizChat plan is active",
		Html:    htmlContent,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		log.Printf("Failed to send payment confirmation email to %s: %v", to, err)
		return fmt.Errorf("failed to send payment confirmation email: %w", err)
	}

	log.Printf("Payment confirmation email sent successfully to %s (ID: %s)", to, sent.Id)
	return nil
}
