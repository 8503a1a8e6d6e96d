package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Payment struct {
	PaymentID uuid.UUID `gorm:"column:payment_id;type:uuid;primaryKey" json:"payment_id"`

	PaymentTenantID   uuid.UUID  `gorm:"column:payment_tenant_id;type:uuid;not null;index" json:"payment_tenant_id"`
	PaymentPropertyID uuid.UUID  `gorm:"column:payment_property_id;type:uuid;not null;index" json:"payment_property_id"`
	PaymentBillingID  *uuid.UUID `gorm:"column:payment_billing_id;type:uuid;index" json:"payment_billing_id,omitempty"`

	// Nominal dalam satuan mayor (bukan sen)
	PaymentAmount   decimal.Decimal `gorm:"column:payment_amount;type:numeric(14,2);not null" json:"payment_amount"`
	PaymentCurrency string          `gorm:"column:payment_currency;type:varchar(8);not null" json:"payment_currency"`

	PaymentType   PaymentType   `gorm:"column:payment_type;type:varchar(16);not null" json:"payment_type"`
	PaymentMethod PaymentMethod `gorm:"column:payment_method;type:varchar(16);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"column:payment_status;type:varchar(16);not null;index" json:"payment_status"`

	PaymentDueDate time.Time  `gorm:"column:payment_due_date;not null;index" json:"payment_due_date"`
	PaymentPaidAt  *time.Time `gorm:"column:payment_paid_at" json:"payment_paid_at,omitempty"`

	PaymentDescription *string `gorm:"column:payment_description;type:text" json:"payment_description,omitempty"`
	PaymentNote        *string `gorm:"column:payment_note;type:text" json:"payment_note,omitempty"`

	// Korelasi gateway (hanya untuk metode gateway)
	PaymentExternalID    *string `gorm:"column:payment_external_id;type:varchar(120);index" json:"payment_external_id,omitempty"`
	PaymentGatewayToken  *string `gorm:"column:payment_gateway_token;type:text" json:"payment_gateway_token,omitempty"` // snap token / client secret
	PaymentCheckoutURL   *string `gorm:"column:payment_checkout_url;type:text" json:"payment_checkout_url,omitempty"`
	PaymentGatewayStatus *string `gorm:"column:payment_gateway_status;type:varchar(64)" json:"payment_gateway_status,omitempty"` // sinyal mentah terakhir

	// Jejak percobaan create ke gateway (untuk rekonsiliasi orphan)
	PaymentGatewayAttemptedAt *time.Time `gorm:"column:payment_gateway_attempted_at" json:"payment_gateway_attempted_at,omitempty"`
	PaymentGatewayError       *string    `gorm:"column:payment_gateway_error;type:text" json:"payment_gateway_error,omitempty"`

	PaymentCreatedAt time.Time `gorm:"column:payment_created_at;autoCreateTime" json:"payment_created_at"`
	PaymentUpdatedAt time.Time `gorm:"column:payment_updated_at;autoUpdateTime" json:"payment_updated_at"`
}

func (Payment) TableName() string { return "payments" }

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.PaymentID == uuid.Nil {
		p.PaymentID = uuid.New()
	}
	if p.PaymentStatus == "" {
		p.PaymentStatus = PaymentStatusPending
	}
	return nil
}

/* ===================== Helpers ===================== */

func (p *Payment) IsGateway() bool { return p.PaymentMethod.IsGateway() }

func (p *Payment) HasCorrelation() bool {
	return p.PaymentExternalID != nil && *p.PaymentExternalID != ""
}

func (p *Payment) IsPaid() bool { return p.PaymentStatus == PaymentStatusPaid }

func (p *Payment) IsOverdueAt(now time.Time) bool {
	return p.PaymentStatus == PaymentStatusPending && now.After(p.PaymentDueDate)
}
