package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kostku_backend/internals/features/finance/billings/model"
	"kostku_backend/internals/features/finance/billings/service"
	paymentDTO "kostku_backend/internals/features/finance/payments/dto"
)

type CreateBillingRequest struct {
	BillingTenantID   uuid.UUID  `json:"billing_tenant_id" validate:"required"`
	BillingPropertyID uuid.UUID  `json:"billing_property_id" validate:"required"`
	BillingTitle      string     `json:"billing_title" validate:"required,min=3,max=160"`
	BillingDueDate    *time.Time `json:"billing_due_date,omitempty"`
	BillingNote       *string    `json:"billing_note,omitempty" validate:"omitempty,max=1000"`
}

func (r *CreateBillingRequest) Normalize() {
	r.BillingTitle = strings.TrimSpace(r.BillingTitle)
	if r.BillingNote != nil {
		s := strings.TrimSpace(*r.BillingNote)
		if s == "" {
			r.BillingNote = nil
		} else {
			r.BillingNote = &s
		}
	}
}

func (r *CreateBillingRequest) ToInput() service.CreateBillingInput {
	return service.CreateBillingInput{
		TenantID:   r.BillingTenantID,
		PropertyID: r.BillingPropertyID,
		Title:      r.BillingTitle,
		DueDate:    r.BillingDueDate,
		Note:       r.BillingNote,
	}
}

type BillingResponse struct {
	BillingID         uuid.UUID  `json:"billing_id"`
	BillingTenantID   uuid.UUID  `json:"billing_tenant_id"`
	BillingPropertyID uuid.UUID  `json:"billing_property_id"`
	BillingTitle      string     `json:"billing_title"`
	BillingStatus     string     `json:"billing_status"`
	BillingDueDate    *time.Time `json:"billing_due_date,omitempty"`
	BillingNote       *string    `json:"billing_note,omitempty"`
	BillingSentAt     *time.Time `json:"billing_sent_at,omitempty"`
	BillingSettledAt  *time.Time `json:"billing_settled_at,omitempty"`
	BillingCreatedAt  time.Time  `json:"billing_created_at"`
	BillingUpdatedAt  time.Time  `json:"billing_updated_at"`
}

type BillingDetailResponse struct {
	BillingResponse
	Payments []paymentDTO.PaymentResponse `json:"payments"`
	Totals   service.Totals               `json:"totals"`
}

func FromModel(m *model.Billing) BillingResponse {
	return BillingResponse{
		BillingID:         m.BillingID,
		BillingTenantID:   m.BillingTenantID,
		BillingPropertyID: m.BillingPropertyID,
		BillingTitle:      m.BillingTitle,
		BillingStatus:     string(m.BillingStatus),
		BillingDueDate:    m.BillingDueDate,
		BillingNote:       m.BillingNote,
		BillingSentAt:     m.BillingSentAt,
		BillingSettledAt:  m.BillingSettledAt,
		BillingCreatedAt:  m.BillingCreatedAt,
		BillingUpdatedAt:  m.BillingUpdatedAt,
	}
}

func FromModels(rows []model.Billing) []BillingResponse {
	out := make([]BillingResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

func FromDetail(d *service.BillingDetail) BillingDetailResponse {
	return BillingDetailResponse{
		BillingResponse: FromModel(&d.Billing),
		Payments:        paymentDTO.FromModels(d.Payments),
		Totals:          d.Totals,
	}
}
