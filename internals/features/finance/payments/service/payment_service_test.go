package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billingModel "kostku_backend/internals/features/finance/billings/model"
	"kostku_backend/internals/features/finance/payments/gateway"
	"kostku_backend/internals/features/finance/payments/model"
	notif "kostku_backend/internals/features/notifications/service"
	"kostku_backend/internals/helpers/apperr"
)

func rentInput(tenantID, propertyID uuid.UUID, method model.PaymentMethod) CreatePaymentInput {
	return CreatePaymentInput{
		TenantID:   tenantID,
		PropertyID: propertyID,
		Amount:     decimal.NewFromInt(100000),
		Type:       model.PaymentTypeRent,
		Method:     method,
		DueDate:    time.Now().UTC().Add(24 * time.Hour),
	}
}

func TestCreatePayment_GatewayHostedCheckout(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)

	p, err := f.svc.CreatePayment(context.Background(), rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodMidtrans))
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	require.NotNil(t, p.PaymentExternalID)
	assert.Equal(t, p.PaymentID.String(), *p.PaymentExternalID)
	assert.NotNil(t, p.PaymentGatewayToken)
	assert.NotNil(t, p.PaymentCheckoutURL)
	assert.Nil(t, p.PaymentPaidAt)
	assert.Equal(t, "IDR", p.PaymentCurrency)

	stored := f.reload(t, p.PaymentID)
	assert.Equal(t, model.PaymentStatusPending, stored.PaymentStatus)
	require.NotNil(t, stored.PaymentExternalID)
	assert.Equal(t, *p.PaymentExternalID, *stored.PaymentExternalID)
	assert.NotNil(t, stored.PaymentGatewayAttemptedAt)
	assert.Nil(t, stored.PaymentPaidAt)
	assert.True(t, stored.PaymentAmount.Equal(decimal.NewFromInt(100000)))

	create, _, _ := f.midtrans.calls()
	assert.Equal(t, 1, create)
	assert.Equal(t, []notif.Kind{notif.KindReminder}, f.notifier.kinds())
}

func TestCreatePayment_ManualHasNoCorrelation(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)

	p, err := f.svc.CreatePayment(context.Background(), rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodManual))
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	assert.Nil(t, p.PaymentExternalID)
	assert.Nil(t, p.PaymentGatewayToken)
	assert.Nil(t, p.PaymentGatewayAttemptedAt)
}

func TestCreatePayment_GatewayFailureKeepsPendingRow(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	f.midtrans.createErr = fmt.Errorf("%w: snap create: timeout", gateway.ErrUnavailable)

	p, err := f.svc.CreatePayment(context.Background(), rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodMidtrans))
	require.Error(t, err)
	assert.Nil(t, p)
	assert.True(t, apperr.Is(err, apperr.KindGatewayUnavailable))

	rows, total, err := f.store.List(context.Background(), PaymentFilter{TenantID: &tn.TenantID}, 0, 10)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	orphan := rows[0]
	assert.Equal(t, model.PaymentStatusPending, orphan.PaymentStatus)
	assert.Nil(t, orphan.PaymentExternalID)
	assert.NotNil(t, orphan.PaymentGatewayAttemptedAt)
	require.NotNil(t, orphan.PaymentGatewayError)
	assert.Contains(t, *orphan.PaymentGatewayError, "timeout")
	assert.Empty(t, f.notifier.kinds())
}

func TestCreatePayment_Validation(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)

	cases := map[string]func(in *CreatePaymentInput){
		"negative amount":         func(in *CreatePaymentInput) { in.Amount = decimal.NewFromInt(-1) },
		"zero amount for gateway": func(in *CreatePaymentInput) { in.Amount = decimal.Zero; in.Method = model.PaymentMethodStripe },
		"unknown type":            func(in *CreatePaymentInput) { in.Type = "parking" },
		"unknown method":          func(in *CreatePaymentInput) { in.Method = "paypal" },
		"missing due date":        func(in *CreatePaymentInput) { in.DueDate = time.Time{} },
		"wrong property":          func(in *CreatePaymentInput) { in.PropertyID = uuid.New() },
		"fractional midtrans amount": func(in *CreatePaymentInput) {
			in.Amount = decimal.RequireFromString("100000.50")
			in.Method = model.PaymentMethodMidtrans
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodManual)
			mutate(&in)
			_, err := f.svc.CreatePayment(context.Background(), in)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}

	t.Run("zero amount manual is allowed", func(t *testing.T) {
		in := rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodManual)
		in.Amount = decimal.Zero
		_, err := f.svc.CreatePayment(context.Background(), in)
		require.NoError(t, err)
	})
}

func TestCreatePayment_UnknownTenant(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreatePayment(context.Background(), rentInput(uuid.New(), uuid.New(), model.PaymentMethodManual))
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, total, err := f.store.List(context.Background(), PaymentFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestCreatePayment_SettledBillingRejectsNewPayment(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	b := f.seedBilling(t, tn)

	in := rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodManual)
	in.BillingID = &b.BillingID
	p, err := f.svc.CreatePayment(context.Background(), in)
	require.NoError(t, err)

	_, err = f.svc.MarkPaid(context.Background(), p.PaymentID, nil, nil)
	require.NoError(t, err)
	assert.True(t, f.reloadBilling(t, b.BillingID).IsSettled())

	_, err = f.svc.CreatePayment(context.Background(), in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

// settleAfterLookup melunasi billing tepat setelah CreatePayment membacanya.
type settleAfterLookup struct {
	BillingLookup
	settle func()
}

func (s settleAfterLookup) FindByID(ctx context.Context, id uuid.UUID) (*billingModel.Billing, error) {
	b, err := s.BillingLookup.FindByID(ctx, id)
	if err == nil {
		s.settle()
	}
	return b, err
}

func TestCreatePayment_BillingSettledDuringCreate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)
	b := f.seedBilling(t, tn)
	only := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", &b.BillingID)

	f.svc.Billings = settleAfterLookup{
		BillingLookup: f.billings,
		settle: func() {
			_, err := f.svc.MarkPaid(ctx, only.PaymentID, nil, nil)
			require.NoError(t, err)
		},
	}

	in := rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodManual)
	in.BillingID = &b.BillingID
	_, err := f.svc.CreatePayment(ctx, in)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	assert.True(t, f.reloadBilling(t, b.BillingID).IsSettled())
	rows, total, err := f.store.List(ctx, PaymentFilter{BillingID: &b.BillingID}, 0, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	for _, p := range rows {
		assert.Equal(t, model.PaymentStatusPaid, p.PaymentStatus)
	}
}

func TestPaymentStoreCreate_UnknownBilling(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	missing := uuid.New()

	err := f.store.Create(context.Background(), &model.Payment{
		PaymentTenantID:   tn.TenantID,
		PaymentPropertyID: tn.TenantPropertyID,
		PaymentBillingID:  &missing,
		PaymentAmount:     decimal.NewFromInt(1),
		PaymentCurrency:   "IDR",
		PaymentType:       model.PaymentTypeRent,
		PaymentMethod:     model.PaymentMethodManual,
		PaymentStatus:     model.PaymentStatusPending,
		PaymentDueDate:    time.Now().UTC(),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestCheckStatus_NoCorrelationNoOutboundCall(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	f.midtrans.createErr = gateway.ErrUnavailable

	_, err := f.svc.CreatePayment(context.Background(), rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodMidtrans))
	require.Error(t, err)
	rows, _, err := f.store.List(context.Background(), PaymentFilter{}, 0, 1)
	require.NoError(t, err)
	before := rows[0]

	got, err := f.svc.CheckStatus(context.Background(), before.PaymentID)
	require.NoError(t, err)

	_, retrieve, _ := f.midtrans.calls()
	assert.Zero(t, retrieve)
	assert.Equal(t, before.PaymentStatus, got.PaymentStatus)
	assert.Equal(t, before.PaymentUpdatedAt, got.PaymentUpdatedAt)
}

func TestCheckStatus_SettlementMarksPaid(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	p := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", nil)
	f.midtrans.retrieveSignal = "settlement"

	got, err := f.svc.CheckStatus(context.Background(), p.PaymentID)
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	assert.NotNil(t, got.PaymentPaidAt)
	assert.Equal(t, []notif.Kind{notif.KindConfirmation}, f.notifier.kinds())

	// terminal: tidak ada retrieve lagi
	_, err = f.svc.CheckStatus(context.Background(), p.PaymentID)
	require.NoError(t, err)
	_, retrieve, _ := f.midtrans.calls()
	assert.Equal(t, 1, retrieve)
	assert.Equal(t, 1, f.notifier.count(notif.KindConfirmation))
}

func TestCheckStatus_GatewayErrorIsSwallowed(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	p := f.seedGatewayPayment(t, tn, model.PaymentMethodStripe, "pi_123", nil)
	f.stripe.retrieveErr = gateway.ErrUnavailable

	got, err := f.svc.CheckStatus(context.Background(), p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	assert.Empty(t, f.notifier.kinds())
}

func TestCheckStatus_PendingPastDueBecomesOverdue(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	p := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", nil)
	f.midtrans.retrieveSignal = "pending"
	f.svc.now = func() time.Time { return time.Now().UTC().Add(48 * time.Hour) }

	got, err := f.svc.CheckStatus(context.Background(), p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusOverdue, got.PaymentStatus)
	assert.Equal(t, []notif.Kind{notif.KindOverdue}, f.notifier.kinds())

	// overdue masih bisa lunas
	f.midtrans.retrieveSignal = "settlement"
	got, err = f.svc.CheckStatus(context.Background(), p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
}

func TestCheckStatus_Throttled(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	p := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", nil)
	f.midtrans.retrieveSignal = "settlement"
	f.svc.Throttle = denyThrottle{}

	got, err := f.svc.CheckStatus(context.Background(), p.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	_, retrieve, _ := f.midtrans.calls()
	assert.Zero(t, retrieve)
}

func TestCheckStatus_UnknownPayment(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.CheckStatus(context.Background(), uuid.New())
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	p, err := f.svc.CreatePayment(context.Background(), rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodManual))
	require.NoError(t, err)

	paidAt := time.Date(2026, 10, 1, 9, 30, 0, 0, time.UTC)
	note := "transfer BCA"
	got, err := f.svc.MarkPaid(context.Background(), p.PaymentID, &paidAt, &note)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, got.PaymentStatus)
	require.NotNil(t, got.PaymentPaidAt)
	assert.True(t, paidAt.Equal(*got.PaymentPaidAt))

	stored := f.reload(t, p.PaymentID)
	require.NotNil(t, stored.PaymentPaidAt)
	assert.True(t, paidAt.Equal(*stored.PaymentPaidAt))
	assert.Equal(t, note, *stored.PaymentNote)

	_, err = f.svc.MarkPaid(context.Background(), p.PaymentID, nil, nil)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = f.svc.CancelPayment(context.Background(), p.PaymentID, nil)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestCancelPayment_CallsGatewayBestEffort(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	p := f.seedGatewayPayment(t, tn, model.PaymentMethodStripe, "pi_cancel", nil)

	reason := "tenant moved out"
	got, err := f.svc.CancelPayment(context.Background(), p.PaymentID, &reason)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCancelled, got.PaymentStatus)
	assert.Nil(t, got.PaymentPaidAt)

	_, _, cancel := f.stripe.calls()
	assert.Equal(t, 1, cancel)
	assert.Equal(t, []notif.Kind{notif.KindCancelled}, f.notifier.kinds())
}

func TestSweepOverdue(t *testing.T) {
	f := newFixture(t)
	tn := f.seedTenant(t)
	late := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", nil)
	onTime := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", nil)
	require.NoError(t, f.db.Model(&model.Payment{}).
		Where("payment_id = ?", late.PaymentID).
		Update("payment_due_date", time.Now().UTC().Add(-72*time.Hour)).Error)

	n, err := f.svc.SweepOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, model.PaymentStatusOverdue, f.reload(t, late.PaymentID).PaymentStatus)
	assert.Equal(t, model.PaymentStatusPending, f.reload(t, onTime.PaymentID).PaymentStatus)

	// idempoten
	n, err = f.svc.SweepOverdue(context.Background(), time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, 1, f.notifier.count(notif.KindOverdue))
}

func TestReconcileOrphans(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)

	f.midtrans.createErr = gateway.ErrUnavailable
	f.stripe.createErr = gateway.ErrUnavailable
	_, err := f.svc.CreatePayment(ctx, rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodMidtrans))
	require.Error(t, err)
	_, err = f.svc.CreatePayment(ctx, rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodStripe))
	require.Error(t, err)

	// belum melewati TTL → tidak disentuh
	n, err := f.svc.ReconcileOrphans(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Zero(t, n)

	// midtrans ternyata sudah menerima transaksi (order id = payment id)
	f.midtrans.retrieveSignal = "settlement"
	n, err = f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	mid := model.PaymentMethodMidtrans
	rows, _, err := f.store.List(ctx, PaymentFilter{Method: &mid}, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.PaymentStatusPaid, rows[0].PaymentStatus)
	require.NotNil(t, rows[0].PaymentExternalID)
	assert.Equal(t, rows[0].PaymentID.String(), *rows[0].PaymentExternalID)

	// stripe tidak menemukan intent dengan metadata payment_id → dibatalkan otomatis
	str := model.PaymentMethodStripe
	rows, _, err = f.store.List(ctx, PaymentFilter{Method: &str}, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.PaymentStatusCancelled, rows[0].PaymentStatus)
	require.NotNil(t, rows[0].PaymentNote)
	assert.Contains(t, *rows[0].PaymentNote, "auto-cancelled")
}

func TestReconcileOrphans_GatewayDownRetriesLater(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)

	f.midtrans.createErr = gateway.ErrUnavailable
	_, err := f.svc.CreatePayment(ctx, rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodMidtrans))
	require.Error(t, err)

	f.midtrans.retrieveErr = gateway.ErrUnavailable
	n, err := f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	f.midtrans.retrieveErr = fmt.Errorf("%w: order unknown", gateway.ErrNotFound)
	n, err = f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, _, err := f.store.List(ctx, PaymentFilter{}, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCancelled, rows[0].PaymentStatus)
}

func TestPaidAtInvariant(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)

	for _, target := range []model.PaymentStatus{
		model.PaymentStatusPaid, model.PaymentStatusFailed, model.PaymentStatusCancelled, model.PaymentStatusOverdue,
	} {
		p := f.seedGatewayPayment(t, tn, model.PaymentMethodMidtrans, "", nil)
		_, err := f.store.ApplyTransition(ctx, p.PaymentID, Transition{To: target})
		require.NoError(t, err)
	}

	rows, _, err := f.store.List(ctx, PaymentFilter{}, 0, 50)
	require.NoError(t, err)
	for _, p := range rows {
		assert.Equal(t, p.PaymentStatus == model.PaymentStatusPaid, p.PaymentPaidAt != nil, "payment %s status=%s", p.PaymentID, p.PaymentStatus)
	}
}

func TestReconcileOrphans_StripeIntentRecovered(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)

	// create timeout, padahal intent sudah dibuat di Stripe
	f.stripe.createErr = gateway.ErrUnavailable
	_, err := f.svc.CreatePayment(ctx, rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodStripe))
	require.Error(t, err)

	f.stripe.lookupRes = &gateway.CreateResult{ExternalID: "pi_late", Token: "pi_late_secret", RawStatus: "requires_payment_method"}
	n, err := f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := f.store.FindByExternalID(ctx, model.PaymentMethodStripe, "pi_late")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, p.PaymentStatus)
	require.NotNil(t, p.PaymentGatewayToken)
	assert.Equal(t, "pi_late_secret", *p.PaymentGatewayToken)
	assert.Nil(t, p.PaymentGatewayError)

	_, _, cancel := f.stripe.calls()
	assert.Zero(t, cancel)
	assert.Zero(t, f.notifier.count(notif.KindCancelled))

	// sudah punya correlation → bukan orphan lagi
	n, err = f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestReconcileOrphans_StripeSucceededIntentMarksPaid(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)
	b := f.seedBilling(t, tn)

	f.stripe.createErr = gateway.ErrUnavailable
	in := rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodStripe)
	in.BillingID = &b.BillingID
	_, err := f.svc.CreatePayment(ctx, in)
	require.Error(t, err)

	f.stripe.lookupRes = &gateway.CreateResult{ExternalID: "pi_paid", RawStatus: "succeeded"}
	n, err := f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	p, err := f.store.FindByExternalID(ctx, model.PaymentMethodStripe, "pi_paid")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPaid, p.PaymentStatus)
	assert.NotNil(t, p.PaymentPaidAt)
	assert.True(t, f.reloadBilling(t, b.BillingID).IsSettled())
	assert.Equal(t, 1, f.notifier.count(notif.KindConfirmation))
}

func TestReconcileOrphans_StripeLookupDownRetriesLater(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	tn := f.seedTenant(t)

	f.stripe.createErr = gateway.ErrUnavailable
	_, err := f.svc.CreatePayment(ctx, rentInput(tn.TenantID, tn.TenantPropertyID, model.PaymentMethodStripe))
	require.Error(t, err)

	f.stripe.lookupErr = gateway.ErrUnavailable
	n, err := f.svc.ReconcileOrphans(ctx, time.Now().UTC().Add(time.Hour))
	require.NoError(t, err)
	assert.Zero(t, n)

	rows, _, err := f.store.List(ctx, PaymentFilter{}, 0, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.PaymentStatusPending, rows[0].PaymentStatus)
	assert.Equal(t, 1, f.stripe.lookupCalls)
}
