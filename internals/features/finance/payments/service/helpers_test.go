package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	billingModel "kostku_backend/internals/features/finance/billings/model"
	billingService "kostku_backend/internals/features/finance/billings/service"
	"kostku_backend/internals/features/finance/payments/gateway"
	"kostku_backend/internals/features/finance/payments/model"
	notif "kostku_backend/internals/features/notifications/service"
	tenantModel "kostku_backend/internals/features/tenants/tenants/model"
	tenantRepository "kostku_backend/internals/features/tenants/tenants/repository"
)

/* ===================== DB ===================== */

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&tenantModel.Tenant{},
		&billingModel.Billing{},
		&model.Payment{},
		&model.PaymentGatewayEvent{},
	))
	return db
}

/* ===================== Fakes ===================== */

type fakeAdapter struct {
	method model.PaymentMethod

	mu            sync.Mutex
	createCalls   int
	retrieveCalls int
	cancelCalls   int

	lookupCalls int

	createRes      *gateway.CreateResult
	createErr      error
	retrieveSignal string
	retrieveErr    error
	lookupRes      *gateway.CreateResult
	lookupErr      error
}

func (f *fakeAdapter) Method() model.PaymentMethod { return f.method }

func (f *fakeAdapter) Create(ctx context.Context, req gateway.CreateRequest) (*gateway.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createRes != nil {
		return f.createRes, nil
	}
	return &gateway.CreateResult{
		ExternalID:  req.OrderID,
		Token:       "snap-token-" + req.OrderID[:8],
		RedirectURL: "https://app.sandbox.midtrans.com/snap/v2/vtweb/" + req.OrderID,
		RawStatus:   "pending",
	}, nil
}

func (f *fakeAdapter) Retrieve(ctx context.Context, externalID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrieveCalls++
	return f.retrieveSignal, f.retrieveErr
}

func (f *fakeAdapter) Cancel(ctx context.Context, externalID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
	return nil
}

func (f *fakeAdapter) calls() (create, retrieve, cancel int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.createCalls, f.retrieveCalls, f.cancelCalls
}

// fakeCorrelatedAdapter: order id = external id, seperti Midtrans.
type fakeCorrelatedAdapter struct{ *fakeAdapter }

func (fakeCorrelatedAdapter) ExternalIDFor(orderID string) string { return orderID }

// fakeLookupAdapter: correlation id dari gateway, dicari lewat order id (seperti Stripe).
type fakeLookupAdapter struct{ *fakeAdapter }

func (f fakeLookupAdapter) LookupOrder(ctx context.Context, orderID string) (*gateway.CreateResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookupCalls++
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	if f.lookupRes == nil {
		return nil, gateway.ErrNotFound
	}
	return f.lookupRes, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []notif.Notification
}

func (r *recordingNotifier) Dispatch(ctx context.Context, n notif.Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, n)
}

func (r *recordingNotifier) kinds() []notif.Kind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notif.Kind, 0, len(r.sent))
	for _, n := range r.sent {
		out = append(out, n.Kind)
	}
	return out
}

func (r *recordingNotifier) count(kind notif.Kind) int {
	n := 0
	for _, k := range r.kinds() {
		if k == kind {
			n++
		}
	}
	return n
}

type denyThrottle struct{}

func (denyThrottle) Allow(context.Context, uuid.UUID) bool { return false }

/* ===================== Fixture ===================== */

type fixture struct {
	db       *gorm.DB
	store    *PaymentStore
	billings *billingService.BillingService
	tenants  *tenantRepository.TenantRepository
	notifier *recordingNotifier
	midtrans *fakeAdapter
	stripe   *fakeAdapter
	svc      *PaymentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	f := &fixture{
		db:       db,
		billings: billingService.NewBillingService(db),
		tenants:  tenantRepository.NewTenantRepository(db),
		notifier: &recordingNotifier{},
		midtrans: &fakeAdapter{method: model.PaymentMethodMidtrans},
		stripe:   &fakeAdapter{method: model.PaymentMethodStripe},
	}
	f.store = NewPaymentStore(db, f.billings)
	reg := gateway.NewRegistry(
		gateway.NewManualAdapter(),
		fakeCorrelatedAdapter{f.midtrans},
		fakeLookupAdapter{f.stripe},
	)
	f.svc = NewPaymentService(f.store, reg, f.tenants, f.billings, f.notifier, NoopThrottle{}, "IDR", 30*time.Minute)
	return f
}

func (f *fixture) seedTenant(t *testing.T) *tenantModel.Tenant {
	t.Helper()
	email := "budi." + uuid.NewString()[:6] + "@example.com"
	phone := "081234567890"
	tn := &tenantModel.Tenant{
		TenantPropertyID: uuid.New(),
		TenantFullName:   "Budi Santoso",
		TenantEmail:      &email,
		TenantPhone:      &phone,
		TenantIsActive:   true,
	}
	require.NoError(t, f.tenants.Create(context.Background(), tn))
	return tn
}

func (f *fixture) seedBilling(t *testing.T, tn *tenantModel.Tenant) *billingModel.Billing {
	t.Helper()
	b, err := f.billings.CreateBilling(context.Background(), billingService.CreateBillingInput{
		TenantID:   tn.TenantID,
		PropertyID: tn.TenantPropertyID,
		Title:      "Sewa Oktober",
	})
	require.NoError(t, err)
	return b
}

// seedGatewayPayment menyisipkan payment gateway yang sudah punya correlation id.
func (f *fixture) seedGatewayPayment(t *testing.T, tn *tenantModel.Tenant, method model.PaymentMethod, externalID string, billingID *uuid.UUID) *model.Payment {
	t.Helper()
	id := uuid.New()
	if externalID == "" {
		externalID = id.String()
	}
	p := &model.Payment{
		PaymentID:         id,
		PaymentTenantID:   tn.TenantID,
		PaymentPropertyID: tn.TenantPropertyID,
		PaymentBillingID:  billingID,
		PaymentAmount:     decimal.NewFromInt(100000),
		PaymentCurrency:   "IDR",
		PaymentType:       model.PaymentTypeRent,
		PaymentMethod:     method,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentDueDate:    time.Now().UTC().Add(24 * time.Hour),
		PaymentExternalID: &externalID,
	}
	require.NoError(t, f.store.Create(context.Background(), p))
	return p
}

func (f *fixture) reload(t *testing.T, id uuid.UUID) *model.Payment {
	t.Helper()
	p, err := f.store.FindByID(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) reloadBilling(t *testing.T, id uuid.UUID) *billingModel.Billing {
	t.Helper()
	b, err := f.billings.FindByID(context.Background(), id)
	require.NoError(t, err)
	return b
}
