package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kostku_backend/internals/features/finance/payments/gateway"
	"kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/helpers/apperr"
)

// BillingPromoter dipanggil di dalam transaksi payment: LockOpenBilling saat
// insert, PromoteIfSettled saat payment menjadi paid.
type BillingPromoter interface {
	LockOpenBilling(tx *gorm.DB, billingID uuid.UUID) error
	PromoteIfSettled(tx *gorm.DB, billingID uuid.UUID) (bool, error)
}

type PaymentStore struct {
	DB       *gorm.DB
	Billings BillingPromoter
}

func NewPaymentStore(db *gorm.DB, billings BillingPromoter) *PaymentStore {
	return &PaymentStore{DB: db, Billings: billings}
}

type PaymentFilter struct {
	TenantID   *uuid.UUID
	PropertyID *uuid.UUID
	BillingID  *uuid.UUID
	Status     *model.PaymentStatus
	Method     *model.PaymentMethod
	Type       *model.PaymentType
	DueFrom    *time.Time
	DueTo      *time.Time
}

/* =========================================================
   Read
========================================================= */

// Create menyisipkan payment. Bila payment milik billing, baris billing dikunci
// dan dicek belum settled di transaksi yang sama dengan insert.
func (s *PaymentStore) Create(ctx context.Context, p *model.Payment) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.PaymentBillingID != nil && s.Billings != nil {
			if err := s.Billings.LockOpenBilling(tx, *p.PaymentBillingID); err != nil {
				return err
			}
		}
		if err := tx.Create(p).Error; err != nil {
			return apperr.Internal(err, "insert payment")
		}
		return nil
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return ae
		}
		return apperr.Internal(err, "insert payment")
	}
	return nil
}

func (s *PaymentStore) FindByID(ctx context.Context, id uuid.UUID) (*model.Payment, error) {
	var p model.Payment
	if err := s.DB.WithContext(ctx).First(&p, "payment_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("payment %s not found", id)
		}
		return nil, apperr.Internal(err, "load payment")
	}
	return &p, nil
}

func (s *PaymentStore) FindByExternalID(ctx context.Context, method model.PaymentMethod, externalID string) (*model.Payment, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return nil, apperr.NotFound("payment with empty correlation id")
	}
	var p model.Payment
	err := s.DB.WithContext(ctx).
		Where("payment_method = ? AND payment_external_id = ?", method, externalID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("no %s payment for %s", method, externalID)
		}
		return nil, apperr.Internal(err, "load payment by correlation id")
	}
	return &p, nil
}

func (s *PaymentStore) List(ctx context.Context, f PaymentFilter, offset, limit int) ([]model.Payment, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.Payment{})
	if f.TenantID != nil {
		q = q.Where("payment_tenant_id = ?", *f.TenantID)
	}
	if f.PropertyID != nil {
		q = q.Where("payment_property_id = ?", *f.PropertyID)
	}
	if f.BillingID != nil {
		q = q.Where("payment_billing_id = ?", *f.BillingID)
	}
	if f.Status != nil {
		q = q.Where("payment_status = ?", *f.Status)
	}
	if f.Method != nil {
		q = q.Where("payment_method = ?", *f.Method)
	}
	if f.Type != nil {
		q = q.Where("payment_type = ?", *f.Type)
	}
	if f.DueFrom != nil {
		q = q.Where("payment_due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("payment_due_date < ?", *f.DueTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "count payments")
	}
	var rows []model.Payment
	if err := q.Order("payment_due_date DESC, payment_created_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal(err, "list payments")
	}
	return rows, total, nil
}

// ListOverdueCandidates: pending yang sudah lewat jatuh tempo.
func (s *PaymentStore) ListOverdueCandidates(ctx context.Context, now time.Time, limit int) ([]model.Payment, error) {
	var rows []model.Payment
	err := s.DB.WithContext(ctx).
		Where("payment_status = ? AND payment_due_date < ?", model.PaymentStatusPending, now).
		Order("payment_due_date ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "list overdue candidates")
	}
	return rows, nil
}

// ListOrphans: payment gateway yang sudah dicoba dibuat tapi tidak punya correlation id.
func (s *PaymentStore) ListOrphans(ctx context.Context, olderThan time.Time, limit int) ([]model.Payment, error) {
	var rows []model.Payment
	err := s.DB.WithContext(ctx).
		Where("payment_method IN ?", []model.PaymentMethod{model.PaymentMethodMidtrans, model.PaymentMethodStripe}).
		Where("payment_status IN ?", []model.PaymentStatus{model.PaymentStatusPending, model.PaymentStatusOverdue}).
		Where("(payment_external_id IS NULL OR payment_external_id = '')").
		Where("payment_gateway_attempted_at IS NOT NULL AND payment_gateway_attempted_at < ?", olderThan).
		Order("payment_gateway_attempted_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, apperr.Internal(err, "list orphan payments")
	}
	return rows, nil
}

/* =========================================================
   Correlation
========================================================= */

// SaveGatewayResult menyimpan correlation id/token. Hanya mengisi yang masih kosong:
// correlation yang sudah tercatat tidak pernah ditimpa.
func (s *PaymentStore) SaveGatewayResult(ctx context.Context, p *model.Payment, res *gateway.CreateResult) error {
	if res == nil || strings.TrimSpace(res.ExternalID) == "" {
		return nil
	}
	updates := map[string]any{
		"payment_external_id":   res.ExternalID,
		"payment_gateway_error": nil,
		"payment_updated_at":    time.Now().UTC(),
	}
	if res.Token != "" {
		updates["payment_gateway_token"] = res.Token
	}
	if res.RedirectURL != "" {
		updates["payment_checkout_url"] = res.RedirectURL
	}
	if res.RawStatus != "" {
		updates["payment_gateway_status"] = res.RawStatus
	}

	tx := s.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ? AND (payment_external_id IS NULL OR payment_external_id = '')", p.PaymentID).
		Updates(updates)
	if tx.Error != nil {
		return apperr.Internal(tx.Error, "save gateway correlation")
	}
	if tx.RowsAffected == 0 {
		return apperr.Conflict("payment %s already has a gateway correlation", p.PaymentID)
	}

	ext := res.ExternalID
	p.PaymentExternalID = &ext
	p.PaymentGatewayError = nil
	if res.Token != "" {
		tok := res.Token
		p.PaymentGatewayToken = &tok
	}
	if res.RedirectURL != "" {
		u := res.RedirectURL
		p.PaymentCheckoutURL = &u
	}
	if res.RawStatus != "" {
		raw := res.RawStatus
		p.PaymentGatewayStatus = &raw
	}
	return nil
}

func (s *PaymentStore) RecordGatewayFailure(ctx context.Context, id uuid.UUID, msg string) error {
	err := s.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ?", id).
		Updates(map[string]any{
			"payment_gateway_error": msg,
			"payment_updated_at":    time.Now().UTC(),
		}).Error
	if err != nil {
		return apperr.Internal(err, "record gateway failure")
	}
	return nil
}

/* =========================================================
   Transition: satu-satunya jalur perubahan status
========================================================= */

type Transition struct {
	To            model.PaymentStatus
	PaidAt        *time.Time // dipakai bila To == paid; nil = sekarang
	GatewayStatus *string
	Note          *string
}

type TransitionResult struct {
	Payment        *model.Payment
	From           model.PaymentStatus
	Changed        bool
	BillingSettled bool
}

// ApplyTransition mengunci baris payment, memeriksa aturan transisi, lalu
// melakukan UPDATE bersyarat (WHERE status = status lama). Bila target paid
// dan payment milik billing, promosi billing ikut di transaksi yang sama.
// Status sama atau sumber terminal = no-op (Changed=false), bukan error.
func (s *PaymentStore) ApplyTransition(ctx context.Context, id uuid.UUID, t Transition) (*TransitionResult, error) {
	if !t.To.IsValid() {
		return nil, apperr.Validation("invalid payment status %q", t.To)
	}

	var out TransitionResult
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p model.Payment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&p, "payment_id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.NotFound("payment %s not found", id)
			}
			return apperr.Internal(err, "lock payment")
		}
		out.From = p.PaymentStatus
		out.Payment = &p

		if !p.PaymentStatus.CanTransitionTo(t.To) {
			return nil
		}

		now := time.Now().UTC()
		updates := map[string]any{
			"payment_status":     t.To,
			"payment_updated_at": now,
		}
		var paidAt *time.Time
		if t.To == model.PaymentStatusPaid {
			at := now
			if t.PaidAt != nil && !t.PaidAt.IsZero() {
				at = t.PaidAt.UTC()
			}
			paidAt = &at
			updates["payment_paid_at"] = at
		}
		if t.GatewayStatus != nil {
			updates["payment_gateway_status"] = *t.GatewayStatus
		}
		if t.Note != nil {
			updates["payment_note"] = *t.Note
		}

		res := tx.Model(&model.Payment{}).
			Where("payment_id = ? AND payment_status = ?", id, p.PaymentStatus).
			Updates(updates)
		if res.Error != nil {
			return apperr.Internal(res.Error, "update payment status")
		}
		if res.RowsAffected == 0 {
			// kalah balapan dengan writer lain
			return nil
		}

		p.PaymentStatus = t.To
		p.PaymentPaidAt = paidAt
		p.PaymentUpdatedAt = now
		if t.GatewayStatus != nil {
			gs := *t.GatewayStatus
			p.PaymentGatewayStatus = &gs
		}
		if t.Note != nil {
			n := *t.Note
			p.PaymentNote = &n
		}
		out.Changed = true

		if t.To == model.PaymentStatusPaid && p.PaymentBillingID != nil && s.Billings != nil {
			settled, err := s.Billings.PromoteIfSettled(tx, *p.PaymentBillingID)
			if err != nil {
				return apperr.Internal(err, "promote billing %s", *p.PaymentBillingID)
			}
			out.BillingSettled = settled
		}
		return nil
	})
	if err != nil {
		var ae *apperr.Error
		if errors.As(err, &ae) {
			return nil, ae
		}
		return nil, apperr.Internal(err, "payment transition")
	}
	return &out, nil
}

// AttachCorrelation mengisi correlation id untuk payment orphan (tanpa mengubah status).
func (s *PaymentStore) AttachCorrelation(ctx context.Context, id uuid.UUID, externalID string) (bool, error) {
	res := s.DB.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ? AND (payment_external_id IS NULL OR payment_external_id = '')", id).
		Updates(map[string]any{
			"payment_external_id":   externalID,
			"payment_gateway_error": nil,
			"payment_updated_at":    time.Now().UTC(),
		})
	if res.Error != nil {
		return false, apperr.Internal(res.Error, "attach correlation id")
	}
	return res.RowsAffected == 1, nil
}

/* =========================================================
   Gateway events (audit webhook)
========================================================= */

type EventFilter struct {
	Provider   *model.PaymentMethod
	Status     *model.GatewayEventStatus
	PaymentID  *uuid.UUID
	ExternalID string
	From       *time.Time
	To         *time.Time
}

func (s *PaymentStore) RecordEvent(ctx context.Context, ev *model.PaymentGatewayEvent) error {
	if err := s.DB.WithContext(ctx).Create(ev).Error; err != nil {
		return apperr.Internal(err, "record gateway event")
	}
	return nil
}

func (s *PaymentStore) MarkEvent(ctx context.Context, ev *model.PaymentGatewayEvent, status model.GatewayEventStatus, paymentID *uuid.UUID, errMsg string) error {
	if ev == nil {
		return nil
	}
	now := time.Now().UTC()
	updates := map[string]any{
		"gateway_event_status":       status,
		"gateway_event_processed_at": now,
	}
	if paymentID != nil {
		updates["gateway_event_payment_id"] = *paymentID
		ev.GatewayEventPaymentID = paymentID
	}
	if errMsg != "" {
		updates["gateway_event_error"] = errMsg
		ev.GatewayEventError = &errMsg
	}
	if err := s.DB.WithContext(ctx).Model(&model.PaymentGatewayEvent{}).
		Where("gateway_event_id = ?", ev.GatewayEventID).
		Updates(updates).Error; err != nil {
		return apperr.Internal(err, "update gateway event")
	}
	ev.GatewayEventStatus = status
	ev.GatewayEventProcessedAt = &now
	return nil
}

func (s *PaymentStore) ListEvents(ctx context.Context, f EventFilter, offset, limit int) ([]model.PaymentGatewayEvent, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.PaymentGatewayEvent{})
	if f.Provider != nil {
		q = q.Where("gateway_event_provider = ?", *f.Provider)
	}
	if f.Status != nil {
		q = q.Where("gateway_event_status = ?", *f.Status)
	}
	if f.PaymentID != nil {
		q = q.Where("gateway_event_payment_id = ?", *f.PaymentID)
	}
	if f.ExternalID != "" {
		q = q.Where("gateway_event_external_id = ?", f.ExternalID)
	}
	if f.From != nil {
		q = q.Where("gateway_event_received_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("gateway_event_received_at < ?", *f.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "count gateway events")
	}
	var rows []model.PaymentGatewayEvent
	if err := q.Order("gateway_event_received_at DESC").
		Offset(offset).Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal(err, "list gateway events")
	}
	return rows, total, nil
}
