package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"kostku_backend/internals/features/finance/billings/model"
	paymentModel "kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/helpers/apperr"
)

type BillingService struct {
	DB *gorm.DB
}

func NewBillingService(db *gorm.DB) *BillingService {
	return &BillingService{DB: db}
}

type CreateBillingInput struct {
	TenantID   uuid.UUID
	PropertyID uuid.UUID
	Title      string
	DueDate    *time.Time
	Note       *string
}

type ListFilter struct {
	TenantID   *uuid.UUID
	PropertyID *uuid.UUID
	Status     *model.BillingStatus
}

// Totals dihitung dari payment milik billing (bukan disimpan).
type Totals struct {
	Count       int             `json:"count"`
	PaidCount   int             `json:"paid_count"`
	Amount      decimal.Decimal `json:"amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
	Outstanding decimal.Decimal `json:"outstanding"`
}

type BillingDetail struct {
	Billing  model.Billing
	Payments []paymentModel.Payment
	Totals   Totals
}

/* =========================================================
   CRUD
========================================================= */

func (s *BillingService) CreateBilling(ctx context.Context, in CreateBillingInput) (*model.Billing, error) {
	if in.TenantID == uuid.Nil || in.PropertyID == uuid.Nil {
		return nil, apperr.Validation("tenant_id and property_id are required")
	}
	if in.Title == "" {
		return nil, apperr.Validation("title is required")
	}
	b := &model.Billing{
		BillingTenantID:   in.TenantID,
		BillingPropertyID: in.PropertyID,
		BillingTitle:      in.Title,
		BillingStatus:     model.BillingStatusDraft,
		BillingDueDate:    in.DueDate,
		BillingNote:       in.Note,
	}
	if err := s.DB.WithContext(ctx).Create(b).Error; err != nil {
		return nil, apperr.Internal(err, "create billing")
	}
	return b, nil
}

func (s *BillingService) FindByID(ctx context.Context, id uuid.UUID) (*model.Billing, error) {
	var b model.Billing
	if err := s.DB.WithContext(ctx).First(&b, "billing_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("billing %s not found", id)
		}
		return nil, apperr.Internal(err, "load billing")
	}
	return &b, nil
}

func (s *BillingService) GetBilling(ctx context.Context, id uuid.UUID) (*BillingDetail, error) {
	b, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	var payments []paymentModel.Payment
	if err := s.DB.WithContext(ctx).
		Where("payment_billing_id = ?", id).
		Order("payment_due_date ASC").
		Find(&payments).Error; err != nil {
		return nil, apperr.Internal(err, "load billing payments")
	}
	return &BillingDetail{Billing: *b, Payments: payments, Totals: computeTotals(payments)}, nil
}

func (s *BillingService) ListBillings(ctx context.Context, f ListFilter, offset, limit int) ([]model.Billing, int64, error) {
	q := s.DB.WithContext(ctx).Model(&model.Billing{})
	if f.TenantID != nil {
		q = q.Where("billing_tenant_id = ?", *f.TenantID)
	}
	if f.PropertyID != nil {
		q = q.Where("billing_property_id = ?", *f.PropertyID)
	}
	if f.Status != nil {
		q = q.Where("billing_status = ?", *f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "count billings")
	}
	var rows []model.Billing
	if err := q.Order("billing_created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal(err, "list billings")
	}
	return rows, total, nil
}

// MarkSent: draft → sent. Billing yang sudah sent/settled tidak diubah.
func (s *BillingService) MarkSent(ctx context.Context, id uuid.UUID) (*model.Billing, error) {
	b, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.BillingStatus != model.BillingStatusDraft {
		return nil, apperr.Conflict("billing %s is already %s", id, b.BillingStatus)
	}

	now := time.Now().UTC()
	res := s.DB.WithContext(ctx).Model(&model.Billing{}).
		Where("billing_id = ? AND billing_status = ?", id, model.BillingStatusDraft).
		Updates(map[string]any{
			"billing_status":     model.BillingStatusSent,
			"billing_sent_at":    now,
			"billing_updated_at": now,
		})
	if res.Error != nil {
		return nil, apperr.Internal(res.Error, "mark billing sent")
	}
	if res.RowsAffected == 0 {
		return nil, apperr.Conflict("billing %s changed concurrently", id)
	}
	b.BillingStatus = model.BillingStatusSent
	b.BillingSentAt = &now
	return b, nil
}

/* =========================================================
   Promotion: dipanggil di dalam transaksi transisi payment
========================================================= */

// LockOpenBilling mengunci baris billing (lock yang sama dengan PromoteIfSettled)
// dan menolak bila sudah settled. Dipanggil di transaksi insert payment baru.
func (s *BillingService) LockOpenBilling(tx *gorm.DB, billingID uuid.UUID) error {
	var b model.Billing
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, "billing_id = ?", billingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("billing %s not found", billingID)
		}
		return apperr.Internal(err, "lock billing")
	}
	if b.IsSettled() {
		return apperr.Conflict("billing %s is already settled", billingID)
	}
	return nil
}

// PromoteIfSettled mengunci baris billing lalu menandainya settled bila
// semua payment-nya paid. tx wajib transaksi yang sedang berjalan.
func (s *BillingService) PromoteIfSettled(tx *gorm.DB, billingID uuid.UUID) (bool, error) {
	var b model.Billing
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&b, "billing_id = ?", billingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	if b.IsSettled() {
		return false, nil
	}

	var total, unpaid int64
	if err := tx.Model(&paymentModel.Payment{}).
		Where("payment_billing_id = ?", billingID).
		Count(&total).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&paymentModel.Payment{}).
		Where("payment_billing_id = ? AND payment_status <> ?", billingID, paymentModel.PaymentStatusPaid).
		Count(&unpaid).Error; err != nil {
		return false, err
	}
	if total == 0 || unpaid > 0 {
		return false, nil
	}

	now := time.Now().UTC()
	updates := map[string]any{
		"billing_status":     model.BillingStatusSettled,
		"billing_settled_at": now,
		"billing_updated_at": now,
	}
	if b.BillingSentAt == nil {
		updates["billing_sent_at"] = now
	}
	res := tx.Model(&model.Billing{}).
		Where("billing_id = ? AND billing_status <> ?", billingID, model.BillingStatusSettled).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func computeTotals(payments []paymentModel.Payment) Totals {
	t := Totals{Amount: decimal.Zero, PaidAmount: decimal.Zero}
	for _, p := range payments {
		t.Count++
		t.Amount = t.Amount.Add(p.PaymentAmount)
		if p.IsPaid() {
			t.PaidCount++
			t.PaidAmount = t.PaidAmount.Add(p.PaymentAmount)
		}
	}
	t.Outstanding = t.Amount.Sub(t.PaidAmount)
	return t
}
