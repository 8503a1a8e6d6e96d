package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==============================================
   MODEL: penghuni kos (collaborator untuk payment)
============================================== */

type Tenant struct {
	TenantID uuid.UUID `gorm:"column:tenant_id;type:uuid;primaryKey" json:"tenant_id"`

	TenantPropertyID uuid.UUID  `gorm:"column:tenant_property_id;type:uuid;not null;index;uniqueIndex:uq_tenant_property_email,priority:1" json:"tenant_property_id"`
	TenantRoomID     *uuid.UUID `gorm:"column:tenant_room_id;type:uuid;index" json:"tenant_room_id,omitempty"`

	TenantFullName string  `gorm:"column:tenant_full_name;type:varchar(120);not null" json:"tenant_full_name"`
	TenantPhone    *string `gorm:"column:tenant_phone;type:varchar(32)" json:"tenant_phone,omitempty"`
	// email unik per properti
	TenantEmail    *string `gorm:"column:tenant_email;type:varchar(160);uniqueIndex:uq_tenant_property_email,priority:2" json:"tenant_email,omitempty"`
	TenantIsActive bool    `gorm:"column:tenant_is_active;not null;default:true" json:"tenant_is_active"`

	TenantCreatedAt time.Time      `gorm:"column:tenant_created_at;autoCreateTime" json:"tenant_created_at"`
	TenantUpdatedAt time.Time      `gorm:"column:tenant_updated_at;autoUpdateTime" json:"tenant_updated_at"`
	TenantDeletedAt gorm.DeletedAt `gorm:"column:tenant_deleted_at;index" json:"-"`
}

func (Tenant) TableName() string { return "tenants" }

func (m *Tenant) BeforeCreate(tx *gorm.DB) error {
	if m.TenantID == uuid.Nil {
		m.TenantID = uuid.New()
	}
	m.TenantFullName = strings.TrimSpace(m.TenantFullName)
	if m.TenantEmail != nil {
		e := strings.ToLower(strings.TrimSpace(*m.TenantEmail))
		m.TenantEmail = &e
	}
	return nil
}

// ContactPhone / ContactEmail dipakai notifier, kosong bila tidak ada.
func (m *Tenant) ContactPhone() string {
	if m.TenantPhone == nil {
		return ""
	}
	return *m.TenantPhone
}

func (m *Tenant) ContactEmail() string {
	if m.TenantEmail == nil {
		return ""
	}
	return *m.TenantEmail
}
