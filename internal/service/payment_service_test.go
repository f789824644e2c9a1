package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/pkg/billing"
)

type paymentFixture struct {
	tenantRepo *fakeTenantRepo
	userRepo   *fakeUserRepo
	provider   *fakeBillingProvider
	ledger     *fakeLedger
	mailer     *fakeEmail
	svc        *PaymentService
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		tenantRepo: newFakeTenantRepo(),
		userRepo:   newFakeUserRepo(),
		provider:   &fakeBillingProvider{},
		ledger:     newFakeLedger(),
		mailer:     &fakeEmail{},
	}
	f.svc = NewPaymentService(
		f.userRepo,
		f.tenantRepo,
		f.provider,
		f.ledger,
		f.mailer,
		map[domain.Tier]string{
			domain.TierBase:       "price_base",
			domain.TierWhiteLabel: "price_wl",
		},
		100,
	)
	return f
}

// seedTenantWithAdmin provisions a free-tier tenant and admin pair the way
// registration leaves them.
func (f *paymentFixture) seedTenantWithAdmin(email string) (tenantID, userID string) {
	ctx := context.Background()

	tenant := &domain.Tenant{Name: "Acme", AdminEmail: email}
	if err := f.tenantRepo.Create(ctx, tenant); err != nil {
		panic(err)
	}
	_ = f.tenantRepo.SetSubscription(ctx, tenant.ID, &domain.Subscription{Tier: domain.TierFree})

	userID = "uid-" + tenant.ID
	user := &domain.User{
		ID:         userID,
		FirstName:  "Jane",
		Email:      email,
		Role:       domain.RoleAdmin,
		CompanyID:  tenant.ID,
		TenantList: []string{tenant.ID},
	}
	if err := f.userRepo.Create(ctx, user); err != nil {
		panic(err)
	}
	_ = f.userRepo.SetSubscription(ctx, userID, &domain.Subscription{Tier: domain.TierFree})

	return tenant.ID, userID
}

func TestReconcileByTenantMarksBothSidesPaid(t *testing.T) {
	f := newPaymentFixture()
	tenantID, userID := f.seedTenantWithAdmin("a@x.com")

	result, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.NoError(t, err)

	assert.Equal(t, tenantID, result.TenantID)
	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, "a@x.com", result.AdminEmail)
	assert.Equal(t, domain.TierBase, result.Tier)

	userSub := f.userRepo.subs[userID]
	tenantSub := f.tenantRepo.subs[tenantID]
	assert.Equal(t, domain.TierBase, userSub.Tier)
	assert.Equal(t, "pay_1", userSub.PaymentID)
	assert.Equal(t, domain.TierBase, tenantSub.Tier)
	assert.Equal(t, "pay_1", tenantSub.PaymentID)
	assert.True(t, f.ledger.processed["pay_1"])
}

func TestReconcileByTenantIsIdempotent(t *testing.T) {
	f := newPaymentFixture()
	tenantID, userID := f.seedTenantWithAdmin("a@x.com")

	first, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.NoError(t, err)
	second, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.NoError(t, err)

	assert.Equal(t, first.TenantID, second.TenantID)
	assert.Equal(t, first.UserID, second.UserID)
	assert.Equal(t, domain.TierBase, f.userRepo.subs[userID].Tier)
	assert.Equal(t, "pay_1", f.userRepo.subs[userID].PaymentID)
	assert.Equal(t, domain.TierBase, f.tenantRepo.subs[tenantID].Tier)
	assert.Equal(t, "pay_1", f.tenantRepo.subs[tenantID].PaymentID)

	// The confirmation email goes out once; the re-run sees the ledger mark.
	assert.Len(t, f.mailer.confirmations, 1)
}

func TestReconcileByTenantNotFoundVariants(t *testing.T) {
	t.Run("tenant missing", func(t *testing.T) {
		f := newPaymentFixture()

		_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", "nope", "")
		require.Error(t, err)
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "Tenant not found", notFound.Message)
		assert.Empty(t, f.tenantRepo.subs, "nothing may be mutated")
	})

	t.Run("admin email missing", func(t *testing.T) {
		f := newPaymentFixture()
		tenant := &domain.Tenant{Name: "No Admin"}
		require.NoError(t, f.tenantRepo.Create(context.Background(), tenant))

		_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenant.ID, "")
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "No admin email found", notFound.Message)
	})

	t.Run("user missing", func(t *testing.T) {
		f := newPaymentFixture()
		tenant := &domain.Tenant{Name: "Orphan", AdminEmail: "ghost@x.com"}
		require.NoError(t, f.tenantRepo.Create(context.Background(), tenant))

		_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenant.ID, "")
		var notFound *domain.NotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, "User not found with admin email", notFound.Message)
	})
}

func TestReconcileByTenantRequiresBothFields(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.ReconcileByTenant(context.Background(), "", "tenant-1", "")
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = f.svc.ReconcileByTenant(context.Background(), "pay_1", "", "")
	assert.ErrorAs(t, err, &validationErr)
}

func TestReconcileByTenantRecordsDivergenceOnTenantWriteFailure(t *testing.T) {
	f := newPaymentFixture()
	tenantID, userID := f.seedTenantWithAdmin("a@x.com")
	f.tenantRepo.tierErr[tenantID] = errors.New("store unavailable")

	_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.Error(t, err)

	// User side landed, tenant side is queued for repair.
	assert.Equal(t, domain.TierBase, f.userRepo.subs[userID].Tier)
	require.Len(t, f.ledger.divergences, 1)
	assert.Equal(t, tenantID, f.ledger.divergences[0].TenantID)
	assert.Equal(t, "pay_1", f.ledger.divergences[0].PaymentID)
}

func TestReconcileByTenantHonorsRequestedTier(t *testing.T) {
	f := newPaymentFixture()
	tenantID, userID := f.seedTenantWithAdmin("a@x.com")

	result, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, domain.TierWhiteLabel)
	require.NoError(t, err)
	assert.Equal(t, domain.TierWhiteLabel, result.Tier)
	assert.Equal(t, domain.TierWhiteLabel, f.userRepo.subs[userID].Tier)
}

func TestVerifyPaymentsCountersSumToTotal(t *testing.T) {
	f := newPaymentFixture()
	_, userID := f.seedTenantWithAdmin("a@x.com")

	f.userRepo.tierErr["uid-broken"] = errors.New("store unavailable")
	broken := &domain.User{ID: "uid-broken", Email: "broken@x.com"}
	require.NoError(t, f.userRepo.Create(context.Background(), broken))

	records := []domain.PaymentRecord{
		{ID: "pay_1", Status: "succeeded", ReceiptEmail: "a@x.com"},
		{ID: "pay_2", Status: "succeeded", ReceiptEmail: "unknown@x.com"},
		{ID: "pay_3", Status: "succeeded", ReceiptEmail: "broken@x.com"},
		{ID: "pay_4", Status: "requires_payment_method"},
		{ID: "pay_5", Status: "succeeded"},
	}

	summary := f.svc.VerifyPayments(context.Background(), records)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 3, summary.Unresolved)
	assert.Equal(t, summary.Total, summary.Successful+summary.Failed+summary.Unresolved)
	assert.LessOrEqual(t, summary.UpdatedUsers, summary.Successful)

	assert.Equal(t, domain.TierBase, f.userRepo.subs[userID].Tier)
}

func TestVerifyPaymentsPrefersMetadataAdminEmail(t *testing.T) {
	f := newPaymentFixture()
	_, userID := f.seedTenantWithAdmin("a@x.com")

	records := []domain.PaymentRecord{
		{
			ID:           "pay_1",
			Status:       "succeeded",
			ReceiptEmail: "someone-else@x.com",
			Metadata:     map[string]string{domain.MetadataAdminEmail: "a@x.com"},
		},
	}

	summary := f.svc.VerifyPayments(context.Background(), records)
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, "pay_1", f.userRepo.subs[userID].PaymentID)
}

func TestVerifyPaymentsUpdatesTenantSide(t *testing.T) {
	f := newPaymentFixture()
	tenantID, _ := f.seedTenantWithAdmin("a@x.com")

	records := []domain.PaymentRecord{
		{ID: "pay_1", Status: "succeeded", ReceiptEmail: "a@x.com"},
	}

	f.svc.VerifyPayments(context.Background(), records)
	assert.Equal(t, domain.TierBase, f.tenantRepo.subs[tenantID].Tier)
	assert.Equal(t, "pay_1", f.tenantRepo.subs[tenantID].PaymentID)
}

func TestVerifyPaymentsCountsDistinctUsersOnce(t *testing.T) {
	f := newPaymentFixture()
	f.seedTenantWithAdmin("a@x.com")

	records := []domain.PaymentRecord{
		{ID: "pay_2", Status: "succeeded", ReceiptEmail: "a@x.com"},
		{ID: "pay_1", Status: "succeeded", ReceiptEmail: "a@x.com"},
	}

	summary := f.svc.VerifyPayments(context.Background(), records)
	assert.Equal(t, 2, summary.Successful)
	assert.Equal(t, 1, summary.UpdatedUsers)
}

func TestVerifyPaymentsFlagsAlreadyProcessed(t *testing.T) {
	f := newPaymentFixture()
	tenantID, _ := f.seedTenantWithAdmin("a@x.com")

	_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.NoError(t, err)

	records := []domain.PaymentRecord{
		{ID: "pay_1", Status: "succeeded", ReceiptEmail: "a@x.com"},
	}
	summary := f.svc.VerifyPayments(context.Background(), records)

	// Still applied (idempotent merge) but flagged for the audit trail.
	assert.Equal(t, 1, summary.Successful)
	assert.Equal(t, 1, summary.AlreadyProcessed)
}

func TestVerifyPaymentsRepairsLoggedDivergence(t *testing.T) {
	f := newPaymentFixture()
	tenantID, _ := f.seedTenantWithAdmin("a@x.com")

	// First reconciliation fails on the tenant side and logs a divergence.
	f.tenantRepo.tierErr[tenantID] = errors.New("store unavailable")
	_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.Error(t, err)
	require.Len(t, f.ledger.divergences, 1)

	// The next sweep repairs it once the store recovers.
	delete(f.tenantRepo.tierErr, tenantID)
	f.svc.VerifyPayments(context.Background(), nil)

	assert.Empty(t, f.ledger.divergences)
	assert.Equal(t, domain.TierBase, f.tenantRepo.subs[tenantID].Tier)
	assert.Equal(t, "pay_1", f.tenantRepo.subs[tenantID].PaymentID)
}

func TestSyncPaymentsFailsWhenProviderUnavailable(t *testing.T) {
	f := newPaymentFixture()
	f.provider.listErr = errors.New("connection refused")

	_, _, err := f.svc.SyncPayments(context.Background())
	require.Error(t, err)

	var extErr *domain.ExternalServiceError
	assert.ErrorAs(t, err, &extErr)
}

func TestSyncPaymentsReturnsRecordsAndSummary(t *testing.T) {
	f := newPaymentFixture()
	f.seedTenantWithAdmin("a@x.com")
	f.provider.records = []domain.PaymentRecord{
		{ID: "pay_1", Status: "succeeded", ReceiptEmail: "a@x.com"},
	}

	records, summary, err := f.svc.SyncPayments(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
	assert.Equal(t, 1, summary.Successful)
}

func TestCompareTiersAfterReconciliation(t *testing.T) {
	f := newPaymentFixture()
	tenantID, _ := f.seedTenantWithAdmin("a@x.com")

	_, err := f.svc.ReconcileByTenant(context.Background(), "pay_1", tenantID, "")
	require.NoError(t, err)

	comparison, err := f.svc.CompareTiers(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.TierBase, comparison.UserTier)
	assert.Equal(t, domain.TierBase, comparison.TenantTier)
	assert.True(t, comparison.TiersMatch)
}

func TestCompareTiersDetectsDivergence(t *testing.T) {
	f := newPaymentFixture()
	tenantID, userID := f.seedTenantWithAdmin("a@x.com")

	// Only the user side was updated, simulating a partial failure.
	require.NoError(t, f.userRepo.ApplyTierUpdate(context.Background(), userID, domain.TierUpdate{
		Tier:      domain.TierBase,
		PaymentID: "pay_1",
	}))

	comparison, err := f.svc.CompareTiers(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, domain.TierBase, comparison.UserTier)
	assert.Equal(t, domain.TierFree, comparison.TenantTier)
	assert.Equal(t, tenantID, comparison.TenantID)
	assert.False(t, comparison.TiersMatch)
}

func TestCompareTiersUnknownUser(t *testing.T) {
	f := newPaymentFixture()

	_, err := f.svc.CompareTiers(context.Background(), "nobody@x.com")
	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "User not found", notFound.Message)
}

func TestCreateCheckoutStampsRoutingMetadata(t *testing.T) {
	f := newPaymentFixture()
	tenantID, _ := f.seedTenantWithAdmin("a@x.com")

	session, err := f.svc.CreateCheckout(context.Background(), tenantID, domain.TierWhiteLabel)
	require.NoError(t, err)
	assert.NotEmpty(t, session.URL)

	require.Len(t, f.provider.sessions, 1)
	params := f.provider.sessions[0]
	assert.Equal(t, tenantID, params.TenantID)
	assert.Equal(t, "a@x.com", params.AdminEmail)
	assert.Equal(t, domain.TierWhiteLabel, params.Tier)
	assert.Equal(t, "price_wl", params.PriceID)
}

func TestCreateCheckoutRejectsFreeTier(t *testing.T) {
	f := newPaymentFixture()
	tenantID, _ := f.seedTenantWithAdmin("a@x.com")

	_, err := f.svc.CreateCheckout(context.Background(), tenantID, domain.TierFree)
	var validationErr *domain.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestHandleCheckoutCompleted(t *testing.T) {
	t.Run("reconciles with session fallback id", func(t *testing.T) {
		f := newPaymentFixture()
		tenantID, userID := f.seedTenantWithAdmin("a@x.com")

		err := f.svc.HandleCheckoutCompleted(context.Background(), &billing.CheckoutCompleted{
			SessionID: "cs_1",
			TenantID:  tenantID,
			Tier:      domain.TierBase,
		})
		require.NoError(t, err)
		assert.Equal(t, "cs_1", f.userRepo.subs[userID].PaymentID)
	})

	t.Run("ignores nil and unroutable events", func(t *testing.T) {
		f := newPaymentFixture()

		assert.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), nil))
		assert.NoError(t, f.svc.HandleCheckoutCompleted(context.Background(), &billing.CheckoutCompleted{
			SessionID: "cs_2",
			PaymentID: "pay_2",
		}))
		assert.Empty(t, f.userRepo.subs)
	})
}
