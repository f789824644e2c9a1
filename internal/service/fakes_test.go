package service

import (
	"context"
	"fmt"
	"strconv"

	"github.com/biz-admin-carlo/bizchat-server/internal/domain"
	"github.com/biz-admin-carlo/bizchat-server/pkg/billing"
	"github.com/biz-admin-carlo/bizchat-server/pkg/identity"
	"github.com/biz-admin-carlo/bizchat-server/pkg/ledger"
)

// In-memory repository and client fakes. Error fields inject failures for
// the step under test; zero values behave like a healthy backend.

type fakeTenantRepo struct {
	tenants  map[string]*domain.Tenant
	subs     map[string]*domain.Subscription
	cards    map[string]*domain.CardInfo
	billing  map[string]*domain.BillingInfo
	logs     map[string][]domain.VisitorLog
	convos   map[string][]domain.Conversation
	tickets  map[string][]domain.Ticket
	selfRefs map[string]bool
	nextID   int

	createErr  error
	selfRefErr error
	subErr     error
	cardsErr   error
	billingErr error
	deleteErr  error
	tierErr    map[string]error
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{
		tenants:  make(map[string]*domain.Tenant),
		subs:     make(map[string]*domain.Subscription),
		cards:    make(map[string]*domain.CardInfo),
		billing:  make(map[string]*domain.BillingInfo),
		logs:     make(map[string][]domain.VisitorLog),
		convos:   make(map[string][]domain.Conversation),
		tickets:  make(map[string][]domain.Ticket),
		selfRefs: make(map[string]bool),
		tierErr:  make(map[string]error),
	}
}

func (f *fakeTenantRepo) Create(_ context.Context, tenant *domain.Tenant) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.nextID++
	tenant.ID = "tenant-" + strconv.Itoa(f.nextID)
	copied := *tenant
	f.tenants[tenant.ID] = &copied
	return nil
}

func (f *fakeTenantRepo) WriteSelfReference(_ context.Context, tenantID string) error {
	if f.selfRefErr != nil {
		return f.selfRefErr
	}
	f.selfRefs[tenantID] = true
	return nil
}

func (f *fakeTenantRepo) GetByID(_ context.Context, tenantID string) (*domain.Tenant, error) {
	tenant, ok := f.tenants[tenantID]
	if !ok {
		return nil, domain.NewNotFoundError("Tenant not found")
	}
	copied := *tenant
	return &copied, nil
}

func (f *fakeTenantRepo) Delete(_ context.Context, tenantID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.tenants, tenantID)
	delete(f.subs, tenantID)
	delete(f.cards, tenantID)
	delete(f.billing, tenantID)
	delete(f.selfRefs, tenantID)
	return nil
}

func (f *fakeTenantRepo) SetSubscription(_ context.Context, tenantID string, sub *domain.Subscription) error {
	if f.subErr != nil {
		return f.subErr
	}
	copied := *sub
	f.subs[tenantID] = &copied
	return nil
}

func (f *fakeTenantRepo) GetSubscription(_ context.Context, tenantID string) (*domain.Subscription, error) {
	sub, ok := f.subs[tenantID]
	if !ok {
		return nil, domain.NewNotFoundError("Tenant subscription not found")
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeTenantRepo) ApplyTierUpdate(_ context.Context, tenantID string, update domain.TierUpdate) error {
	if err := f.tierErr[tenantID]; err != nil {
		return err
	}
	sub, ok := f.subs[tenantID]
	if !ok {
		sub = &domain.Subscription{}
		f.subs[tenantID] = sub
	}
	sub.Tier = update.Tier
	sub.PaymentID = update.PaymentID
	sub.UpdatedAt = update.UpdatedAt
	return nil
}

func (f *fakeTenantRepo) SetCards(_ context.Context, tenantID string, cards *domain.CardInfo) error {
	if f.cardsErr != nil {
		return f.cardsErr
	}
	copied := *cards
	f.cards[tenantID] = &copied
	return nil
}

func (f *fakeTenantRepo) SetBilling(_ context.Context, tenantID string, billing *domain.BillingInfo) error {
	if f.billingErr != nil {
		return f.billingErr
	}
	copied := *billing
	f.billing[tenantID] = &copied
	return nil
}

func (f *fakeTenantRepo) AddVisitorLog(_ context.Context, tenantID string, entry *domain.VisitorLog) error {
	entry.ID = fmt.Sprintf("log-%d", len(f.logs[tenantID])+1)
	f.logs[tenantID] = append(f.logs[tenantID], *entry)
	return nil
}

func (f *fakeTenantRepo) IncrementVisitorCount(_ context.Context, tenantID string) error {
	tenant, ok := f.tenants[tenantID]
	if !ok {
		return domain.NewNotFoundError("Tenant not found")
	}
	tenant.VisitorCount++
	return nil
}

func (f *fakeTenantRepo) ListVisitorLogs(_ context.Context, tenantID string, limit int) ([]domain.VisitorLog, error) {
	logs := f.logs[tenantID]
	if len(logs) > limit {
		logs = logs[:limit]
	}
	return logs, nil
}

func (f *fakeTenantRepo) ListConversations(_ context.Context, tenantID string, limit int) ([]domain.Conversation, error) {
	convos := f.convos[tenantID]
	if len(convos) > limit {
		convos = convos[:limit]
	}
	return convos, nil
}

func (f *fakeTenantRepo) ListTickets(_ context.Context, tenantID string, limit int) ([]domain.Ticket, error) {
	tickets := f.tickets[tenantID]
	if len(tickets) > limit {
		tickets = tickets[:limit]
	}
	return tickets, nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
	subs  map[string]*domain.Subscription

	createErr error
	deleteErr error
	subErr    error
	lookupErr error
	tierErr   map[string]error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[string]*domain.User),
		subs:    make(map[string]*domain.Subscription),
		tierErr: make(map[string]error),
	}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	copied := *user
	f.users[user.ID] = &copied
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID string) (*domain.User, error) {
	user, ok := f.users[userID]
	if !ok {
		return nil, domain.NewNotFoundError("User not found")
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	for _, user := range f.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.users, userID)
	delete(f.subs, userID)
	return nil
}

func (f *fakeUserRepo) SetSubscription(_ context.Context, userID string, sub *domain.Subscription) error {
	if f.subErr != nil {
		return f.subErr
	}
	copied := *sub
	f.subs[userID] = &copied
	return nil
}

func (f *fakeUserRepo) GetSubscription(_ context.Context, userID string) (*domain.Subscription, error) {
	sub, ok := f.subs[userID]
	if !ok {
		return nil, domain.NewNotFoundError("User subscription not found")
	}
	copied := *sub
	return &copied, nil
}

func (f *fakeUserRepo) ApplyTierUpdate(_ context.Context, userID string, update domain.TierUpdate) error {
	if err := f.tierErr[userID]; err != nil {
		return err
	}
	sub, ok := f.subs[userID]
	if !ok {
		sub = &domain.Subscription{}
		f.subs[userID] = sub
	}
	sub.Tier = update.Tier
	sub.PaymentID = update.PaymentID
	sub.UpdatedAt = update.UpdatedAt
	return nil
}

func (f *fakeUserRepo) ListByTenant(_ context.Context, tenantID string) ([]*domain.User, error) {
	var members []*domain.User
	for _, user := range f.users {
		for _, id := range user.TenantList {
			if id == tenantID {
				copied := *user
				members = append(members, &copied)
				break
			}
		}
	}
	return members, nil
}

type fakeIdentity struct {
	accounts map[string]*identity.Account
	deleted  []string
	nextUID  int

	createErr error
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{accounts: make(map[string]*identity.Account)}
}

func (f *fakeIdentity) CreateAccount(_ context.Context, email, _, displayName string) (*identity.Account, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextUID++
	account := &identity.Account{
		UID:         "uid-" + strconv.Itoa(f.nextUID),
		Email:       email,
		DisplayName: displayName,
	}
	f.accounts[account.UID] = account
	return account, nil
}

func (f *fakeIdentity) DeleteAccount(_ context.Context, uid string) error {
	delete(f.accounts, uid)
	f.deleted = append(f.deleted, uid)
	return nil
}

func (f *fakeIdentity) VerifyToken(_ context.Context, _ string) (*identity.Token, error) {
	return &identity.Token{UID: "uid-test", Email: "test@example.com"}, nil
}

type fakeLedger struct {
	processed   map[string]bool
	divergences []ledger.Divergence
	nextID      int

	markErr error
	readErr error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{processed: make(map[string]bool)}
}

func (f *fakeLedger) MarkProcessed(_ context.Context, paymentID string) error {
	if f.markErr != nil {
		return f.markErr
	}
	f.processed[paymentID] = true
	return nil
}

func (f *fakeLedger) WasProcessed(_ context.Context, paymentID string) (bool, error) {
	if f.readErr != nil {
		return false, f.readErr
	}
	return f.processed[paymentID], nil
}

func (f *fakeLedger) RecordDivergence(_ context.Context, d ledger.Divergence) error {
	f.nextID++
	d.ID = "div-" + strconv.Itoa(f.nextID)
	f.divergences = append(f.divergences, d)
	return nil
}

func (f *fakeLedger) Divergences(_ context.Context) ([]ledger.Divergence, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]ledger.Divergence, len(f.divergences))
	copy(out, f.divergences)
	return out, nil
}

func (f *fakeLedger) ClearDivergence(_ context.Context, id string) error {
	kept := f.divergences[:0]
	for _, d := range f.divergences {
		if d.ID != id {
			kept = append(kept, d)
		}
	}
	f.divergences = kept
	return nil
}

type fakeEmail struct {
	welcomes      []string
	confirmations []string
	sendErr       error
}

func (f *fakeEmail) SendWelcomeEmail(_ context.Context, to, _, _ string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.welcomes = append(f.welcomes, to)
	return nil
}

func (f *fakeEmail) SendPaymentConfirmationEmail(_ context.Context, to, _, _ string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.confirmations = append(f.confirmations, to)
	return nil
}

type fakeBillingProvider struct {
	records  []domain.PaymentRecord
	listErr  error
	sessions []billing.CheckoutParams
}

func (f *fakeBillingProvider) ListRecentPayments(_ context.Context, limit int) ([]domain.PaymentRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	if len(f.records) > limit {
		return f.records[:limit], nil
	}
	return f.records, nil
}

func (f *fakeBillingProvider) CreateCheckoutSession(_ context.Context, params billing.CheckoutParams) (*billing.CheckoutSession, error) {
	f.sessions = append(f.sessions, params)
	return &billing.CheckoutSession{
		ID:  fmt.Sprintf("cs_%d", len(f.sessions)),
		URL: "https://checkout.example.com/" + params.TenantID,
	}, nil
}

func (f *fakeBillingProvider) ParseWebhook(_ []byte, _ string) (*billing.CheckoutCompleted, error) {
	return nil, nil
}
