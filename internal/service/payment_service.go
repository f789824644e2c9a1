package service

import (
	"context"
	"log"
	"time"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/internal/repository"
	"github.com/biz-admin-carlo/bizchat-server/pkg/billing"
	"github.com/biz-admin-carlo/bizchat-server/pkg/email"
	"github.com/biz-admin-carlo/bizchat-server/pkg/ledger"
)

// ReconciliationLedger is the shared bookkeeping both reconciliation paths
// write through. It is advisory: ledger failures are logged, never fatal,
// because tier writes themselves are idempotent merges.
type ReconciliationLedger interface {
	MarkProcessed(ctx context.Context, paymentID string) error
	WasProcessed(ctx context.Context, paymentID string) (bool, error)
	RecordDivergence(ctx context.Context, d ledger.Divergence) error
	Divergences(ctx context.Context) ([]ledger.Divergence, error)
	ClearDivergence(ctx context.Context, id string) error
}

// PaymentService owns tier activation: the batch verification sweep, the
// by-tenant reconciler behind the checkout redirect and the webhook, the
// checkout session handoff, and the tier diagnostic.
type PaymentService struct {
	userRepo     repository.UserRepository
	tenantRepo   repository.TenantRepository
	provider     billing.Provider
	ledger       ReconciliationLedger
	emailService email.EmailService
	// price ID per paid tier, from configuration
	prices map[domain.Tier]string
	// payments a sweep pulls from the provider
	syncLimit int
}

func NewPaymentService(
	userRepo repository.UserRepository,
	tenantRepo repository.TenantRepository,
	provider billing.Provider,
	paymentLedger ReconciliationLedger,
	emailService email.EmailService,
	prices map[domain.Tier]string,
	syncLimit int,
) *PaymentService {
	if syncLimit <= 0 {
		syncLimit = 100
	}
	return &PaymentService{
		userRepo:     userRepo,
		tenantRepo:   tenantRepo,
		provider:     provider,
		ledger:       paymentLedger,
		emailService: emailService,
		prices:       prices,
		syncLimit:    syncLimit,
	}
}

// SyncPayments pulls the newest payments from the Billing Provider and runs
// the verifier across them. An unreachable provider fails the whole batch;
// per-record failures only show up in the summary.
func (s *PaymentService) SyncPayments(ctx context.Context) ([]domain.PaymentRecord, *domain.VerificationSummary, error) {
	records, err := s.provider.ListRecentPayments(ctx, s.syncLimit)
	if err != nil {
		return nil, nil, domain.NewExternalServiceError("billing provider", err)
	}

	summary := s.VerifyPayments(ctx, records)
	return records, summary, nil
}

// VerifyPayments matches each payment to a user and idempotently applies the
// paid tier to the user and their tenant. Records are expected newest-first;
// re-applying an older payment after a newer one writes the same confirmed
// state, so ordering only matters for audit timestamps.
func (s *PaymentService) VerifyPayments(ctx context.Context, records []domain.PaymentRecord) *domain.VerificationSummary {
	summary := &domain.VerificationSummary{Total: len(records)}
	updated := make(map[string]struct{})

	for _, record := range records {
		if record.Status != "succeeded" {
			summary.Unresolved++
			continue
		}

		adminEmail := record.AdminEmail()
		if adminEmail == "" {
			summary.Unresolved++
			continue
		}

		user, err := s.userRepo.GetByEmail(ctx, adminEmail)
		if err != nil {
			log.Printf("[VERIFIER] Lookup for payment %s failed: %v", record.ID, err)
			summary.Failed++
			continue
		}
		if user == nil {
			summary.Unresolved++
			continue
		}

		alreadyProcessed := s.wasProcessed(ctx, record.ID)

		update := domain.TierUpdate{
			Tier:      record.TargetTier(),
			PaymentID: record.ID,
			UpdatedAt: time.Now(),
		}
		if err := s.userRepo.ApplyTierUpdate(ctx, user.ID, update); err != nil {
			log.Printf("[VERIFIER] User tier update for payment %s failed: %v", record.ID, err)
			summary.Failed++
			continue
		}

		summary.Successful++
		if alreadyProcessed {
			summary.AlreadyProcessed++
		}
		if _, seen := updated[user.ID]; !seen {
			updated[user.ID] = struct{}{}
			summary.UpdatedUsers++
		}

		s.applyTenantSide(ctx, user, update)
		s.markProcessed(ctx, record.ID)
	}

	s.repairDivergences(ctx)

	log.Printf("[VERIFIER] Sweep done: %d total, %d successful, %d failed, %d unresolved, %d users",
		summary.Total, summary.Successful, summary.Failed, summary.Unresolved, summary.UpdatedUsers)

	return summary
}

// ReconcileByTenant marks the tenant's admin and the tenant itself as paid
// for the given payment. Idempotent: re-running with the same pair re-applies
// the same merge. tier may be empty; it then defaults to the base plan.
func (s *PaymentService) ReconcileByTenant(ctx context.Context, paymentID, tenantID string, tier domain.Tier) (*domain.ReconcileResult, error) {
	if paymentID == "" || tenantID == "" {
		return nil, domain.NewValidationError("paymentId and tenantId are required")
	}
	if !tier.Paid() {
		tier = domain.TierBase
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if tenant.AdminEmail == "" {
		return nil, domain.NewNotFoundError("No admin email found")
	}

	user, err := s.userRepo.GetByEmail(ctx, tenant.AdminEmail)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found with admin email")
	}

	alreadyProcessed := s.wasProcessed(ctx, paymentID)

	update := domain.TierUpdate{
		Tier:      tier,
		PaymentID: paymentID,
		UpdatedAt: time.Now(),
	}
	if err := s.userRepo.ApplyTierUpdate(ctx, user.ID, update); err != nil {
		return nil, err
	}
	if err := s.tenantRepo.ApplyTierUpdate(ctx, tenantID, update); err != nil {
		// The user side landed; log the divergence so the sweep repairs
		// the tenant side, then surface the failure.
		s.recordDivergence(ctx, ledger.Divergence{
			PaymentID: paymentID,
			UserID:    user.ID,
			TenantID:  tenantID,
			Tier:      tier.String(),
		})
		return nil, err
	}

	s.markProcessed(ctx, paymentID)

	log.Printf("[RECONCILER] Tenant %s and user %s set to %s (payment %s)",
		tenantID, user.ID, tier, paymentID)

	if s.emailService != nil && !alreadyProcessed {
		if err := s.emailService.SendPaymentConfirmationEmail(ctx, user.Email, user.FirstName, tier.String()); err != nil {
			log.Printf("[RECONCILER] Confirmation email to %s failed: %v", user.Email, err)
		}
	}

	return &domain.ReconcileResult{
		TenantID:   tenantID,
		UserID:     user.ID,
		AdminEmail: tenant.AdminEmail,
		PaymentID:  paymentID,
		Tier:       tier,
	}, nil
}

// ParseWebhook verifies a webhook delivery and extracts a completed
// checkout, if the event is one this service handles.
func (s *PaymentService) ParseWebhook(payload []byte, signature string) (*billing.CheckoutCompleted, error) {
	return s.provider.ParseWebhook(payload, signature)
}

// HandleCheckoutCompleted reconciles a completed hosted checkout delivered by
// webhook. Sessions without tenant metadata cannot be routed and are left to
// the verification sweep.
func (s *PaymentService) HandleCheckoutCompleted(ctx context.Context, completed *billing.CheckoutCompleted) error {
	if completed == nil {
		return nil
	}
	if completed.TenantID == "" {
		log.Printf("[RECONCILER] Checkout %s carries no tenant metadata, leaving to sweep", completed.SessionID)
		return nil
	}

	paymentID := completed.PaymentID
	if paymentID == "" {
		paymentID = completed.SessionID
	}

	_, err := s.ReconcileByTenant(ctx, paymentID, completed.TenantID, completed.Tier)
	return err
}

// CreateCheckout opens a hosted checkout session for a tenant and paid tier.
func (s *PaymentService) CreateCheckout(ctx context.Context, tenantID string, tier domain.Tier) (*billing.CheckoutSession, error) {
	if !tier.Paid() {
		return nil, domain.NewValidationError("tier must be a paid plan")
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	session, err := s.provider.CreateCheckoutSession(ctx, billing.CheckoutParams{
		TenantID:   tenant.ID,
		AdminEmail: tenant.AdminEmail,
		Tier:       tier,
		PriceID:    s.prices[tier],
	})
	if err != nil {
		return nil, domain.NewExternalServiceError("billing provider", err)
	}
	return session, nil
}

// CompareTiers is the diagnostic for a user/tenant tier pair.
func (s *PaymentService) CompareTiers(ctx context.Context, emailAddr string) (*domain.TierComparison, error) {
	user, err := s.userRepo.GetByEmail(ctx, emailAddr)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.NewNotFoundError("User not found")
	}

	comparison := &domain.TierComparison{
		Email:    emailAddr,
		UserID:   user.ID,
		UserTier: s.userTier(ctx, user.ID),
	}

	tenantID := user.PrimaryTenantID()
	if tenantID == "" {
		return comparison, nil
	}
	comparison.TenantID = tenantID
	comparison.TenantTier = s.tenantTier(ctx, tenantID)
	comparison.TiersMatch = comparison.UserTier == comparison.TenantTier

	return comparison, nil
}

// applyTenantSide mirrors a user tier update onto the user's tenant, logging
// a divergence instead of failing when the write does not land.
func (s *PaymentService) applyTenantSide(ctx context.Context, user *domain.User, update domain.TierUpdate) {
	tenantID := user.PrimaryTenantID()
	if tenantID == "" {
		return
	}
	if err := s.tenantRepo.ApplyTierUpdate(ctx, tenantID, update); err != nil {
		log.Printf("[VERIFIER] Tenant tier update for payment %s failed: %v", update.PaymentID, err)
		s.recordDivergence(ctx, ledger.Divergence{
			PaymentID: update.PaymentID,
			UserID:    user.ID,
			TenantID:  tenantID,
			Tier:      update.Tier.String(),
		})
	}
}

// repairDivergences retries the tenant-side writes recorded by earlier
// partial failures.
func (s *PaymentService) repairDivergences(ctx context.Context) {
	divergences, err := s.ledger.Divergences(ctx)
	if err != nil {
		log.Printf("[VERIFIER] Could not read divergence log: %v", err)
		return
	}

	for _, d := range divergences {
		tier, err := domain.ParseTier(d.Tier)
		if err != nil {
			tier = domain.TierBase
		}
		update := domain.TierUpdate{
			Tier:      tier,
			PaymentID: d.PaymentID,
			UpdatedAt: time.Now(),
		}
		if err := s.tenantRepo.ApplyTierUpdate(ctx, d.TenantID, update); err != nil {
			log.Printf("[VERIFIER] Divergence repair for tenant %s failed: %v", d.TenantID, err)
			continue
		}
		if err := s.ledger.ClearDivergence(ctx, d.ID); err != nil {
			log.Printf("[VERIFIER] Could not clear divergence %s: %v", d.ID, err)
		}
		log.Printf("[VERIFIER] Repaired tier divergence for tenant %s (payment %s)", d.TenantID, d.PaymentID)
	}
}

func (s *PaymentService) userTier(ctx context.Context, userID string) domain.Tier {
	sub, err := s.userRepo.GetSubscription(ctx, userID)
	if err != nil || sub == nil {
		return domain.TierFree
	}
	return sub.Tier
}

func (s *PaymentService) tenantTier(ctx context.Context, tenantID string) domain.Tier {
	sub, err := s.tenantRepo.GetSubscription(ctx, tenantID)
	if err != nil || sub == nil {
		return domain.TierFree
	}
	return sub.Tier
}

func (s *PaymentService) wasProcessed(ctx context.Context, paymentID string) bool {
	processed, err := s.ledger.WasProcessed(ctx, paymentID)
	if err != nil {
		log.Printf("[LEDGER] Processed check for %s failed: %v", paymentID, err)
		return false
	}
	return processed
}

func (s *PaymentService) markProcessed(ctx context.Context, paymentID string) {
	if err := s.ledger.MarkProcessed(ctx, paymentID); err != nil {
		log.Printf("[LEDGER] Could not mark %s processed: %v", paymentID, err)
	}
}

func (s *PaymentService) recordDivergence(ctx context.Context, d ledger.Divergence) {
	if err := s.ledger.RecordDivergence(ctx, d); err != nil {
		log.Printf("[LEDGER] Could not record divergence for payment %s: %v", d.PaymentID, err)
	}
}
