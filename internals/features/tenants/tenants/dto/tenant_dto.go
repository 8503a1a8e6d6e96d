package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"kostku_backend/internals/features/tenants/tenants/model"
)

type CreateTenantRequest struct {
	TenantPropertyID uuid.UUID  `json:"tenant_property_id" validate:"required"`
	TenantRoomID     *uuid.UUID `json:"tenant_room_id,omitempty"`
	TenantFullName   string     `json:"tenant_full_name" validate:"required,min=2,max=120"`
	TenantPhone      *string    `json:"tenant_phone,omitempty" validate:"omitempty,min=6,max=32"`
	TenantEmail      *string    `json:"tenant_email,omitempty" validate:"omitempty,email,max=160"`
}

func (r *CreateTenantRequest) Normalize() {
	r.TenantFullName = strings.TrimSpace(r.TenantFullName)
	r.TenantPhone = trimPtr(r.TenantPhone)
	r.TenantEmail = trimPtr(r.TenantEmail)
}

func (r *CreateTenantRequest) ToModel() *model.Tenant {
	return &model.Tenant{
		TenantPropertyID: r.TenantPropertyID,
		TenantRoomID:     r.TenantRoomID,
		TenantFullName:   r.TenantFullName,
		TenantPhone:      r.TenantPhone,
		TenantEmail:      r.TenantEmail,
		TenantIsActive:   true,
	}
}

type TenantResponse struct {
	TenantID         uuid.UUID  `json:"tenant_id"`
	TenantPropertyID uuid.UUID  `json:"tenant_property_id"`
	TenantRoomID     *uuid.UUID `json:"tenant_room_id,omitempty"`
	TenantFullName   string     `json:"tenant_full_name"`
	TenantPhone      *string    `json:"tenant_phone,omitempty"`
	TenantEmail      *string    `json:"tenant_email,omitempty"`
	TenantIsActive   bool       `json:"tenant_is_active"`
	TenantCreatedAt  time.Time  `json:"tenant_created_at"`
	TenantUpdatedAt  time.Time  `json:"tenant_updated_at"`
}

func FromModel(m *model.Tenant) TenantResponse {
	return TenantResponse{
		TenantID:         m.TenantID,
		TenantPropertyID: m.TenantPropertyID,
		TenantRoomID:     m.TenantRoomID,
		TenantFullName:   m.TenantFullName,
		TenantPhone:      m.TenantPhone,
		TenantEmail:      m.TenantEmail,
		TenantIsActive:   m.TenantIsActive,
		TenantCreatedAt:  m.TenantCreatedAt,
		TenantUpdatedAt:  m.TenantUpdatedAt,
	}
}

func FromModels(rows []model.Tenant) []TenantResponse {
	out := make([]TenantResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
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
