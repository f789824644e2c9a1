package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/internal/repository"
	"github.com/biz-admin-carlo/bizchat-server/pkg/email"
	"github.com/biz-admin-carlo/bizchat-server/pkg/identity"
)

// ProvisioningService creates a tenant, its billing sub-documents, and the
// admin identity plus user document as one compensated sequence. The writes
// are not transactional; on failure every completed step is rolled back in
// reverse order, best effort.
type ProvisioningService struct {
	tenantRepo   repository.TenantRepository
	userRepo     repository.UserRepository
	identity     identity.Service
	emailService email.EmailService
}

// NewProvisioningService wires the provisioner. emailService may be nil when
// transactional email is disabled.
func NewProvisioningService(
	tenantRepo repository.TenantRepository,
	userRepo repository.UserRepository,
	identityService identity.Service,
	emailService email.EmailService,
) *ProvisioningService {
	return &ProvisioningService{
		tenantRepo:   tenantRepo,
		userRepo:     userRepo,
		identity:     identityService,
		emailService: emailService,
	}
}

// RegisterTenantRequest is the company-registration payload.
type RegisterTenantRequest struct {
	CompanyName  string `json:"company_name" validate:"required,min=2,max=255"`
	Address      string `json:"address" validate:"omitempty,max=500"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
	ContactPhone string `json:"contact_phone" validate:"omitempty,max=50"`
	Industry     string `json:"industry" validate:"omitempty,max=100"`
	Size         string `json:"size" validate:"omitempty,max=50"`
	CompanyCode  string `json:"company_code" validate:"omitempty,max=50"`
	TaxID        string `json:"tax_id" validate:"omitempty,max=100"`

	AdminEmail string `json:"admin_email" validate:"required,email"`
	Password   string `json:"password" validate:"required,min=8"`
	// Either first/last name or a single full name must be present.
	FirstName string `json:"first_name" validate:"omitempty,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,max=100"`
	FullName  string `json:"full_name" validate:"omitempty,max=200"`

	NumAddnlCompanies int `json:"num_addnal_companies" validate:"gte=0"`
	NumAddnlMembers   int `json:"num_addnal_members" validate:"gte=0"`
}

// RegisterTenantResult reports the created identifiers.
type RegisterTenantResult struct {
	TenantID string `json:"id"`
	AdminUID string `json:"adminUid"`
}

// RegisterTenant runs the provisioning saga:
//
//  1. create the tenant document (visitorCount = 0)
//  2. write the companyId self-reference
//  3. initialize the tenant subscription to free
//  4. initialize the cards placeholder
//  5. initialize the billing sub-document
//  6. create the admin identity
//  7. create the admin user document
//  8. initialize the admin subscription to free
//
// A failure at any step compensates all completed steps in reverse, so a
// failed registration leaves neither a tenant, an identity, nor a user
// behind (barring a crash mid-sequence, which the document store cannot
// protect against).
func (s *ProvisioningService) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (*RegisterTenantResult, error) {
	firstName, lastName, err := deriveAdminName(req)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	tenant := &domain.Tenant{
		Name:         req.CompanyName,
		Address:      req.Address,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Industry:     req.Industry,
		Size:         req.Size,
		CompanyCode:  req.CompanyCode,
		TaxID:        req.TaxID,
		AdminEmail:   req.AdminEmail,
		VisitorCount: 0,
		CreatedAt:    now,
	}

	admin := &domain.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     req.AdminEmail,
		Role:      domain.RoleAdmin,
	}

	steps := []sagaStep{
		{
			name: "create tenant",
			run: func(ctx context.Context) error {
				return s.tenantRepo.Create(ctx, tenant)
			},
			compensate: func(ctx context.Context) error {
				return s.tenantRepo.Delete(ctx, tenant.ID)
			},
		},
		{
			name: "write tenant self-reference",
			run: func(ctx context.Context) error {
				return s.tenantRepo.WriteSelfReference(ctx, tenant.ID)
			},
		},
		{
			name: "init tenant subscription",
			run: func(ctx context.Context) error {
				return s.tenantRepo.SetSubscription(ctx, tenant.ID, &domain.Subscription{
					Tier:      domain.TierFree,
					UpdatedAt: now,
				})
			},
		},
		{
			name: "init tenant cards",
			run: func(ctx context.Context) error {
				return s.tenantRepo.SetCards(ctx, tenant.ID, &domain.CardInfo{})
			},
		},
		{
			name: "init tenant billing",
			run: func(ctx context.Context) error {
				return s.tenantRepo.SetBilling(ctx, tenant.ID, &domain.BillingInfo{
					Address: req.Address,
					TaxID:   req.TaxID,
				})
			},
		},
		{
			name: "create admin identity",
			run: func(ctx context.Context) error {
				account, err := s.identity.CreateAccount(ctx, req.AdminEmail, req.Password, admin.DisplayName())
				if err != nil {
					return domain.NewExternalServiceError("identity service", err)
				}
				admin.ID = account.UID
				return nil
			},
			compensate: func(ctx context.Context) error {
				return s.identity.DeleteAccount(ctx, admin.ID)
			},
		},
		{
			name: "create admin user",
			run: func(ctx context.Context) error {
				admin.CompanyID = tenant.ID
				admin.TenantList = []string{tenant.ID}
				return s.userRepo.Create(ctx, admin)
			},
			compensate: func(ctx context.Context) error {
				return s.userRepo.Delete(ctx, admin.ID)
			},
		},
		{
			name: "init admin subscription",
			run: func(ctx context.Context) error {
				return s.userRepo.SetSubscription(ctx, admin.ID, &domain.Subscription{
					Tier:              domain.TierFree,
					NumAddnlCompanies: req.NumAddnlCompanies,
					NumAddnlMembers:   req.NumAddnlMembers,
					UpdatedAt:         now,
				})
			},
		},
	}

	if err := runSaga(ctx, steps); err != nil {
		log.Printf("[PROVISIONER] Registration for %s failed: %v", req.AdminEmail, err)
		return nil, err
	}

	log.Printf("[PROVISIONER] Registered tenant %s with admin %s (%s)",
		tenant.ID, admin.ID, req.AdminEmail)

	// Welcome email is a courtesy, never part of the contract.
	if s.emailService != nil {
		if err := s.emailService.SendWelcomeEmail(ctx, req.AdminEmail, firstName, req.CompanyName); err != nil {
			log.Printf("[PROVISIONER] Welcome email to %s failed: %v", req.AdminEmail, err)
		}
	}

	return &RegisterTenantResult{
		TenantID: tenant.ID,
		AdminUID: admin.ID,
	}, nil
}

// deriveAdminName resolves the admin's first/last name from explicit fields,
// falling back to splitting a full-name string on the first space.
func deriveAdminName(req RegisterTenantRequest) (string, string, error) {
	if req.FirstName != "" {
		return req.FirstName, req.LastName, nil
	}

	full := strings.TrimSpace(req.FullName)
	if full == "" {
		return "", "", domain.NewValidationError("admin name is required")
	}

	if idx := strings.Index(full, " "); idx > 0 {
		return full[:idx], strings.TrimSpace(full[idx+1:]), nil
	}
	return full, "", nil
}
