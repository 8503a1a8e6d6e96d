package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================
   ENUM: status billing
============================== */

type BillingStatus string

const (
	BillingStatusDraft   BillingStatus = "draft"
	BillingStatusSent    BillingStatus = "sent"
	BillingStatusSettled BillingStatus = "settled"
)

func (s BillingStatus) IsValid() bool {
	switch s {
	case BillingStatusDraft, BillingStatusSent, BillingStatusSettled:
		return true
	}
	return false
}

/* ==============================================
   MODEL: agregat tagihan atas satu/lebih payment
============================================== */

type Billing struct {
	BillingID uuid.UUID `gorm:"column:billing_id;type:uuid;primaryKey" json:"billing_id"`

	BillingTenantID   uuid.UUID `gorm:"column:billing_tenant_id;type:uuid;not null;index" json:"billing_tenant_id"`
	BillingPropertyID uuid.UUID `gorm:"column:billing_property_id;type:uuid;not null;index" json:"billing_property_id"`

	BillingTitle   string        `gorm:"column:billing_title;type:varchar(160);not null" json:"billing_title"`
	BillingStatus  BillingStatus `gorm:"column:billing_status;type:varchar(16);not null;default:'draft';index" json:"billing_status"`
	BillingDueDate *time.Time    `gorm:"column:billing_due_date" json:"billing_due_date,omitempty"`
	BillingNote    *string       `gorm:"column:billing_note;type:text" json:"billing_note,omitempty"`

	BillingSentAt    *time.Time `gorm:"column:billing_sent_at" json:"billing_sent_at,omitempty"`
	BillingSettledAt *time.Time `gorm:"column:billing_settled_at" json:"billing_settled_at,omitempty"`

	BillingCreatedAt time.Time `gorm:"column:billing_created_at;autoCreateTime" json:"billing_created_at"`
	BillingUpdatedAt time.Time `gorm:"column:billing_updated_at;autoUpdateTime" json:"billing_updated_at"`
}

func (Billing) TableName() string { return "billings" }

func (m *Billing) BeforeCreate(tx *gorm.DB) error {
	if m.BillingID == uuid.Nil {
		m.BillingID = uuid.New()
	}
	if m.BillingStatus == "" {
		m.BillingStatus = BillingStatusDraft
	}
	return nil
}

func (m *Billing) IsSettled() bool { return m.BillingStatus == BillingStatusSettled }
