package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	billingModel "kostku_backend/internals/features/finance/billings/model"
	"kostku_backend/internals/features/finance/payments/gateway"
	"kostku_backend/internals/features/finance/payments/model"
	notif "kostku_backend/internals/features/notifications/service"
	"kostku_backend/internals/helpers/apperr"
)

type BillingLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*billingModel.Billing, error)
}

// PaymentService = orchestrator: membuat payment, memanggil gateway,
// dan menyimpan correlation id. Semua dependency di-inject dari main.
type PaymentService struct {
	Store    *PaymentStore
	Gateways *gateway.Registry
	Tenants  TenantLookup
	Billings BillingLookup
	Throttle PollThrottle

	Currency  string
	OrphanTTL time.Duration

	notify paymentNotifier
	now    func() time.Time
}

func NewPaymentService(
	store *PaymentStore,
	gateways *gateway.Registry,
	tenants TenantLookup,
	billings BillingLookup,
	notifier notif.Notifier,
	throttle PollThrottle,
	currency string,
	orphanTTL time.Duration,
) *PaymentService {
	if throttle == nil {
		throttle = NoopThrottle{}
	}
	if currency == "" {
		currency = "IDR"
	}
	return &PaymentService{
		Store:     store,
		Gateways:  gateways,
		Tenants:   tenants,
		Billings:  billings,
		Throttle:  throttle,
		Currency:  strings.ToUpper(currency),
		OrphanTTL: orphanTTL,
		notify:    paymentNotifier{tenants: tenants, notifier: notifier},
		now:       func() time.Time { return time.Now().UTC() },
	}
}

type CreatePaymentInput struct {
	TenantID    uuid.UUID
	PropertyID  uuid.UUID
	BillingID   *uuid.UUID
	Amount      decimal.Decimal
	Currency    string
	Type        model.PaymentType
	Method      model.PaymentMethod
	DueDate     time.Time
	Description *string
	Note        *string
}

/* =========================================================
   createPayment
========================================================= */

func (s *PaymentService) CreatePayment(ctx context.Context, in CreatePaymentInput) (*model.Payment, error) {
	if err := s.validateCreate(in); err != nil {
		return nil, err
	}

	tenant, err := s.Tenants.FindByID(ctx, in.TenantID)
	if err != nil {
		return nil, err
	}
	if tenant.TenantPropertyID != in.PropertyID {
		return nil, apperr.Validation("tenant %s does not belong to property %s", in.TenantID, in.PropertyID)
	}

	if in.BillingID != nil {
		b, err := s.Billings.FindByID(ctx, *in.BillingID)
		if err != nil {
			return nil, err
		}
		if b.BillingTenantID != in.TenantID {
			return nil, apperr.Validation("billing %s belongs to another tenant", b.BillingID)
		}
		if b.IsSettled() {
			return nil, apperr.Conflict("billing %s is already settled", b.BillingID)
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = s.Currency
	}
	p := &model.Payment{
		PaymentTenantID:    in.TenantID,
		PaymentPropertyID:  in.PropertyID,
		PaymentBillingID:   in.BillingID,
		PaymentAmount:      in.Amount.Round(2),
		PaymentCurrency:    currency,
		PaymentType:        in.Type,
		PaymentMethod:      in.Method,
		PaymentStatus:      model.PaymentStatusPending,
		PaymentDueDate:     in.DueDate.UTC(),
		PaymentDescription: in.Description,
		PaymentNote:        in.Note,
	}

	var adapter gateway.Adapter
	if in.Method.IsGateway() {
		adapter, err = s.Gateways.Adapter(in.Method)
		if err != nil {
			return nil, apperr.Validation("payment method %s is not configured", in.Method)
		}
		// dicatat sebelum gateway dipanggil: bila hasilnya tidak diketahui,
		// sweeper masih bisa merekonsiliasi payment ini.
		attempted := s.now()
		p.PaymentGatewayAttemptedAt = &attempted
	}

	if err := s.Store.Create(ctx, p); err != nil {
		return nil, err
	}

	if adapter != nil {
		req := gateway.CreateRequest{
			OrderID:  p.PaymentID.String(),
			Amount:   p.PaymentAmount,
			Currency: p.PaymentCurrency,
			Customer: gateway.Customer{
				Name:  tenant.TenantFullName,
				Email: tenant.ContactEmail(),
				Phone: tenant.ContactPhone(),
			},
		}
		if in.Description != nil {
			req.Description = *in.Description
		}

		res, gwErr := adapter.Create(ctx, req)
		if gwErr != nil {
			log.Printf("[PAYMENT] gateway create failed payment=%s method=%s: %v", p.PaymentID, p.PaymentMethod, gwErr)
			// ctx bisa sudah habis karena timeout; catatan kegagalan tetap ditulis
			if err := s.Store.RecordGatewayFailure(context.WithoutCancel(ctx), p.PaymentID, gwErr.Error()); err != nil {
				log.Printf("[PAYMENT] record gateway failure payment=%s: %v", p.PaymentID, err)
			}
			return nil, apperr.Wrap(apperr.KindGatewayUnavailable, gwErr,
				"payment %s saved as pending but %s is unavailable", p.PaymentID, p.PaymentMethod)
		}
		if err := s.Store.SaveGatewayResult(ctx, p, res); err != nil {
			return nil, err
		}
	}

	s.notify.send(ctx, notif.KindReminder, p)
	return p, nil
}

func (s *PaymentService) validateCreate(in CreatePaymentInput) error {
	if in.TenantID == uuid.Nil {
		return apperr.Validation("tenant_id is required")
	}
	if in.PropertyID == uuid.Nil {
		return apperr.Validation("property_id is required")
	}
	if in.Amount.IsNegative() {
		return apperr.Validation("amount must be >= 0")
	}
	if !in.Type.IsValid() {
		return apperr.Validation("invalid payment type %q", in.Type)
	}
	if !in.Method.IsValid() {
		return apperr.Validation("invalid payment method %q", in.Method)
	}
	if in.Method.IsGateway() && !in.Amount.IsPositive() {
		return apperr.Validation("amount must be > 0 for %s payments", in.Method)
	}
	if in.Method == model.PaymentMethodMidtrans && !in.Amount.Equal(in.Amount.Truncate(0)) {
		return apperr.Validation("amount must be a whole number for %s payments", in.Method)
	}
	if in.DueDate.IsZero() {
		return apperr.Validation("due_date is required")
	}
	return nil
}

/* =========================================================
   checkStatus: best-effort, tidak pernah gagal karena gateway
========================================================= */

func (s *PaymentService) CheckStatus(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	p, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.HasCorrelation() || p.PaymentStatus.IsTerminal() {
		return p, nil
	}
	if !s.Throttle.Allow(ctx, p.PaymentID) {
		return p, nil
	}

	target := p.PaymentStatus
	var raw *string

	adapter, err := s.Gateways.Adapter(p.PaymentMethod)
	if err != nil {
		log.Printf("[PAYMENT] check status payment=%s: %v", p.PaymentID, err)
	} else if signal, rErr := adapter.Retrieve(ctx, *p.PaymentExternalID); rErr != nil {
		log.Printf("[PAYMENT] retrieve failed payment=%s method=%s external=%s: %v",
			p.PaymentID, p.PaymentMethod, *p.PaymentExternalID, rErr)
	} else {
		target = MapGatewaySignal(signal)
		raw = &signal
	}

	if target == model.PaymentStatusPending && p.IsOverdueAt(s.now()) {
		target = model.PaymentStatusOverdue
	}
	if target == p.PaymentStatus || !p.PaymentStatus.CanTransitionTo(target) {
		return p, nil
	}

	res, err := s.Store.ApplyTransition(ctx, p.PaymentID, Transition{To: target, GatewayStatus: raw})
	if err != nil {
		return nil, err
	}
	if res.Changed {
		log.Printf("[PAYMENT] status payment=%s %s -> %s (poll)", p.PaymentID, res.From, res.Payment.PaymentStatus)
		s.notify.statusChanged(ctx, res.Payment)
	}
	return res.Payment, nil
}

/* =========================================================
   Read
========================================================= */

func (s *PaymentService) GetPayment(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	return s.Store.FindByID(ctx, id)
}

func (s *PaymentService) ListPayments(ctx context.Context, f PaymentFilter, offset, limit int) ([]model.Payment, int64, error) {
	return s.Store.List(ctx, f, offset, limit)
}

/* =========================================================
   Staff actions
========================================================= */

// MarkPaid: pelunasan manual oleh staff (tunai/transfer).
func (s *PaymentService) MarkPaid(ctx context.Context, id uuid.UUID, paidAt *time.Time, note *string) (*model.Payment, error) {
	p, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PaymentStatus.IsTerminal() {
		return nil, apperr.Conflict("payment %s is already %s", id, p.PaymentStatus)
	}
	if paidAt != nil && paidAt.After(s.now().Add(time.Minute)) {
		return nil, apperr.Validation("paid_at cannot be in the future")
	}

	res, err := s.Store.ApplyTransition(ctx, id, Transition{To: model.PaymentStatusPaid, PaidAt: paidAt, Note: note})
	if err != nil {
		return nil, err
	}
	if !res.Changed {
		return nil, apperr.Conflict("payment %s is already %s", id, res.Payment.PaymentStatus)
	}
	log.Printf("[PAYMENT] marked paid payment=%s by staff (billing_settled=%v)", id, res.BillingSettled)
	s.notify.statusChanged(ctx, res.Payment)
	return res.Payment, nil
}

// CancelPayment membatalkan payment terbuka. Pembatalan di gateway best-effort.
func (s *PaymentService) CancelPayment(ctx context.Context, id uuid.UUID, reason *string) (*model.Payment, error) {
	p, err := s.Store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.PaymentStatus.IsTerminal() {
		return nil, apperr.Conflict("payment %s is already %s", id, p.PaymentStatus)
	}

	if p.HasCorrelation() {
		if adapter, err := s.Gateways.Adapter(p.PaymentMethod); err == nil {
			if cErr := adapter.Cancel(ctx, *p.PaymentExternalID); cErr != nil {
				log.Printf("[PAYMENT] gateway cancel failed payment=%s external=%s: %v", id, *p.PaymentExternalID, cErr)
			}
		}
	}

	res, err := s.Store.ApplyTransition(ctx, id, Transition{To: model.PaymentStatusCancelled, Note: reason})
	if err != nil {
		return nil, err
	}
	if !res.Changed {
		return nil, apperr.Conflict("payment %s is already %s", id, res.Payment.PaymentStatus)
	}
	s.notify.statusChanged(ctx, res.Payment)
	return res.Payment, nil
}

/* =========================================================
   Sweeper jobs
========================================================= */

const sweepBatch = 500

// SweepOverdue: pending yang lewat jatuh tempo → overdue.
func (s *PaymentService) SweepOverdue(ctx context.Context, now time.Time) (int, error) {
	rows, err := s.Store.ListOverdueCandidates(ctx, now, sweepBatch)
	if err != nil {
		return 0, err
	}
	changed := 0
	for i := range rows {
		res, err := s.Store.ApplyTransition(ctx, rows[i].PaymentID, Transition{To: model.PaymentStatusOverdue})
		if err != nil {
			log.Printf("[SWEEPER] overdue payment=%s: %v", rows[i].PaymentID, err)
			continue
		}
		if res.Changed {
			changed++
			s.notify.statusChanged(ctx, res.Payment)
		}
	}
	return changed, nil
}

// ReconcileOrphans menangani payment gateway yang create-nya tidak pernah
// menghasilkan correlation id. Gateway ditanya lewat order id dulu: transaksi
// yang ditemukan dipulihkan, yang tidak dikenal gateway dibatalkan otomatis.
func (s *PaymentService) ReconcileOrphans(ctx context.Context, now time.Time) (int, error) {
	if s.OrphanTTL <= 0 {
		return 0, nil
	}
	rows, err := s.Store.ListOrphans(ctx, now.Add(-s.OrphanTTL), sweepBatch)
	if err != nil {
		return 0, err
	}

	resolved := 0
	for i := range rows {
		ok, err := s.reconcileOrphan(ctx, &rows[i])
		if err != nil {
			log.Printf("[SWEEPER] orphan payment=%s method=%s: %v", rows[i].PaymentID, rows[i].PaymentMethod, err)
			continue
		}
		if ok {
			resolved++
		}
	}
	return resolved, nil
}

func (s *PaymentService) reconcileOrphan(ctx context.Context, p *model.Payment) (bool, error) {
	adapter, err := s.Gateways.Adapter(p.PaymentMethod)
	if err != nil {
		return false, err
	}

	found, err := findOrphanAtGateway(ctx, adapter, p)
	if err != nil {
		// gateway belum bisa ditanya; coba lagi di putaran berikutnya
		return false, err
	}
	if found != nil {
		return true, s.recoverOrphan(ctx, p, found)
	}

	note := "auto-cancelled: gateway creation outcome unknown"
	if p.PaymentGatewayError != nil && *p.PaymentGatewayError != "" {
		note += " (" + *p.PaymentGatewayError + ")"
	}
	res, err := s.Store.ApplyTransition(ctx, p.PaymentID, Transition{To: model.PaymentStatusCancelled, Note: &note})
	if err != nil {
		return false, err
	}
	if res.Changed {
		log.Printf("[SWEEPER] orphan payment=%s cancelled", p.PaymentID)
		s.notify.statusChanged(ctx, res.Payment)
	}
	return res.Changed, nil
}

// findOrphanAtGateway: (nil, nil) berarti gateway tidak mengenal order ini.
func findOrphanAtGateway(ctx context.Context, adapter gateway.Adapter, p *model.Payment) (*gateway.CreateResult, error) {
	orderID := p.PaymentID.String()

	var (
		res *gateway.CreateResult
		err error
	)
	switch a := adapter.(type) {
	case gateway.OrderIDCorrelated:
		ext := a.ExternalIDFor(orderID)
		var signal string
		if signal, err = adapter.Retrieve(ctx, ext); err == nil {
			res = &gateway.CreateResult{ExternalID: ext, RawStatus: signal}
		}
	case gateway.OrderLookup:
		res, err = a.LookupOrder(ctx, orderID)
	default:
		return nil, nil
	}
	if errors.Is(err, gateway.ErrNotFound) {
		return nil, nil
	}
	return res, err
}

// recoverOrphan menyimpan correlation (dan token bila ada) lalu menerapkan status gateway.
func (s *PaymentService) recoverOrphan(ctx context.Context, p *model.Payment, found *gateway.CreateResult) error {
	// Conflict = webhook sudah lebih dulu mengisi correlation
	if err := s.Store.SaveGatewayResult(ctx, p, found); err != nil && !apperr.Is(err, apperr.KindConflict) {
		return err
	}

	signal := found.RawStatus
	target := MapGatewaySignal(signal)
	if target != p.PaymentStatus && p.PaymentStatus.CanTransitionTo(target) {
		res, err := s.Store.ApplyTransition(ctx, p.PaymentID, Transition{To: target, GatewayStatus: &signal})
		if err != nil {
			return err
		}
		if res.Changed {
			s.notify.statusChanged(ctx, res.Payment)
		}
	}
	log.Printf("[SWEEPER] orphan payment=%s recovered external=%s signal=%s", p.PaymentID, found.ExternalID, signal)
	return nil
}
