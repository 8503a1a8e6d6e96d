package dto

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/features/finance/payments/service"
)

/* =========================================================
   CREATE
========================================================= */

type CreatePaymentRequest struct {
	PaymentTenantID   uuid.UUID       `json:"payment_tenant_id" validate:"required"`
	PaymentPropertyID uuid.UUID       `json:"payment_property_id" validate:"required"`
	PaymentBillingID  *uuid.UUID      `json:"payment_billing_id,omitempty"`
	PaymentAmount     decimal.Decimal `json:"payment_amount"`
	PaymentCurrency   string          `json:"payment_currency,omitempty" validate:"omitempty,len=3"`

	PaymentType   string `json:"payment_type" validate:"required,oneof=rent deposit utility other"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=manual midtrans stripe"`

	// RFC3339 atau YYYY-MM-DD
	PaymentDueDate string `json:"payment_due_date" validate:"required"`

	PaymentDescription *string `json:"payment_description,omitempty" validate:"omitempty,max=500"`
	PaymentNote        *string `json:"payment_note,omitempty" validate:"omitempty,max=1000"`
}

func (r *CreatePaymentRequest) Normalize() {
	r.PaymentType = strings.ToLower(strings.TrimSpace(r.PaymentType))
	r.PaymentMethod = strings.ToLower(strings.TrimSpace(r.PaymentMethod))
	r.PaymentCurrency = strings.ToUpper(strings.TrimSpace(r.PaymentCurrency))
	r.PaymentDueDate = strings.TrimSpace(r.PaymentDueDate)
	r.PaymentDescription = trimPtr(r.PaymentDescription)
	r.PaymentNote = trimPtr(r.PaymentNote)
}

func (r *CreatePaymentRequest) ToInput() (service.CreatePaymentInput, error) {
	due, err := ParseDate(r.PaymentDueDate)
	if err != nil {
		return service.CreatePaymentInput{}, err
	}
	return service.CreatePaymentInput{
		TenantID:    r.PaymentTenantID,
		PropertyID:  r.PaymentPropertyID,
		BillingID:   r.PaymentBillingID,
		Amount:      r.PaymentAmount,
		Currency:    r.PaymentCurrency,
		Type:        model.PaymentType(r.PaymentType),
		Method:      model.PaymentMethod(r.PaymentMethod),
		DueDate:     due,
		Description: r.PaymentDescription,
		Note:        r.PaymentNote,
	}, nil
}

/* =========================================================
   STAFF ACTIONS
========================================================= */

type MarkPaidRequest struct {
	PaymentPaidAt *time.Time `json:"payment_paid_at,omitempty"`
	PaymentNote   *string    `json:"payment_note,omitempty" validate:"omitempty,max=1000"`
}

type CancelPaymentRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=1000"`
}

/* =========================================================
   RESPONSE
========================================================= */

type PaymentResponse struct {
	PaymentID         uuid.UUID  `json:"payment_id"`
	PaymentTenantID   uuid.UUID  `json:"payment_tenant_id"`
	PaymentPropertyID uuid.UUID  `json:"payment_property_id"`
	PaymentBillingID  *uuid.UUID `json:"payment_billing_id,omitempty"`

	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	PaymentCurrency string          `json:"payment_currency"`
	PaymentType     string          `json:"payment_type"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentStatus   string          `json:"payment_status"`

	PaymentDueDate time.Time  `json:"payment_due_date"`
	PaymentPaidAt  *time.Time `json:"payment_paid_at"`

	PaymentDescription *string `json:"payment_description,omitempty"`
	PaymentNote        *string `json:"payment_note,omitempty"`

	PaymentExternalID    *string `json:"payment_external_id,omitempty"`
	PaymentGatewayToken  *string `json:"payment_gateway_token,omitempty"`
	PaymentCheckoutURL   *string `json:"payment_checkout_url,omitempty"`
	PaymentGatewayStatus *string `json:"payment_gateway_status,omitempty"`
	PaymentGatewayError  *string `json:"payment_gateway_error,omitempty"`

	PaymentCreatedAt time.Time `json:"payment_created_at"`
	PaymentUpdatedAt time.Time `json:"payment_updated_at"`
}

func FromModel(m *model.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:            m.PaymentID,
		PaymentTenantID:      m.PaymentTenantID,
		PaymentPropertyID:    m.PaymentPropertyID,
		PaymentBillingID:     m.PaymentBillingID,
		PaymentAmount:        m.PaymentAmount,
		PaymentCurrency:      m.PaymentCurrency,
		PaymentType:          string(m.PaymentType),
		PaymentMethod:        string(m.PaymentMethod),
		PaymentStatus:        string(m.PaymentStatus),
		PaymentDueDate:       m.PaymentDueDate,
		PaymentPaidAt:        m.PaymentPaidAt,
		PaymentDescription:   m.PaymentDescription,
		PaymentNote:          m.PaymentNote,
		PaymentExternalID:    m.PaymentExternalID,
		PaymentGatewayToken:  m.PaymentGatewayToken,
		PaymentCheckoutURL:   m.PaymentCheckoutURL,
		PaymentGatewayStatus: m.PaymentGatewayStatus,
		PaymentGatewayError:  m.PaymentGatewayError,
		PaymentCreatedAt:     m.PaymentCreatedAt,
		PaymentUpdatedAt:     m.PaymentUpdatedAt,
	}
}

func FromModels(rows []model.Payment) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

/* =========================================================
   Utils
========================================================= */

// ParseDate menerima RFC3339 atau YYYY-MM-DD (dianggap UTC).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.New("date is required")
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, errors.New("invalid date format, use RFC3339 or YYYY-MM-DD")
}

func trimPtr(p *string) *string {
	if p == nil {
		return nil
	}
	s := strings.TrimSpace(*p)
	if s == "" {
		return nil
	}
	return &s
}
