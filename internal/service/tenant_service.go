package service

import (
	"context"
	"log"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/internal/repository"
)

const defaultListLimit = 50

// TenantService serves the dashboard reads and the public visitor endpoint.
type TenantService struct {
	tenantRepo repository.TenantRepository
	userRepo   repository.UserRepository
}

func NewTenantService(tenantRepo repository.TenantRepository, userRepo repository.UserRepository) *TenantService {
	return &TenantService{
		tenantRepo: tenantRepo,
		userRepo:   userRepo,
	}
}

// TenantOverview is the dashboard view of one tenant.
type TenantOverview struct {
	Tenant       *domain.Tenant       `json:"tenant"`
	Subscription *domain.Subscription `json:"subscription"`
}

// GetTenant returns the tenant profile with its subscription. A missing
// subscription sub-document reads as the free tier.
func (s *TenantService) GetTenant(ctx context.Context, tenantID string) (*TenantOverview, error) {
	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	sub, err := s.tenantRepo.GetSubscription(ctx, tenantID)
	if err != nil || sub == nil {
		sub = &domain.Subscription{Tier: domain.TierFree}
	}

	return &TenantOverview{Tenant: tenant, Subscription: sub}, nil
}

// ListMembers returns every user belonging to the tenant.
func (s *TenantService) ListMembers(ctx context.Context, tenantID string) ([]*domain.User, error) {
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.userRepo.ListByTenant(ctx, tenantID)
}

// ListConversations returns the tenant's newest chat threads.
func (s *TenantService) ListConversations(ctx context.Context, tenantID string, limit int) ([]domain.Conversation, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.tenantRepo.ListConversations(ctx, tenantID, limit)
}

// ListTickets returns the tenant's newest support tickets.
func (s *TenantService) ListTickets(ctx context.Context, tenantID string, limit int) ([]domain.Ticket, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return nil, err
	}
	return s.tenantRepo.ListTickets(ctx, tenantID, limit)
}

// RecordVisitor appends a visitor log entry and bumps the tenant's counter.
// The two writes are independent; a failed counter bump is logged and the
// event kept, since the count is a convenience aggregate.
func (s *TenantService) RecordVisitor(ctx context.Context, tenantID string, entry *domain.VisitorLog) error {
	if _, err := s.tenantRepo.GetByID(ctx, tenantID); err != nil {
		return err
	}

	if err := s.tenantRepo.AddVisitorLog(ctx, tenantID, entry); err != nil {
		return err
	}
	if err := s.tenantRepo.IncrementVisitorCount(ctx, tenantID); err != nil {
		log.Printf("[VISITORS] Counter bump for tenant %s failed: %v", tenantID, err)
	}
	return nil
}

// VisitorStats returns the tenant's visitor counter and recent events.
func (s *TenantService) VisitorStats(ctx context.Context, tenantID string, limit int) (*domain.VisitorStats, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	tenant, err := s.tenantRepo.GetByID(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	recent, err := s.tenantRepo.ListVisitorLogs(ctx, tenantID, limit)
	if err != nil {
		return nil, err
	}

	return &domain.VisitorStats{
		TenantID:     tenantID,
		VisitorCount: tenant.VisitorCount,
		Recent:       recent,
	}, nil
}
