package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"kostku_backend/internals/features/tenants/tenants/model"
	"kostku_backend/internals/helpers/apperr"
)

type TenantRepository struct {
	DB *gorm.DB
}

func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{DB: db}
}

type ListFilter struct {
	PropertyID *uuid.UUID
	RoomID     *uuid.UUID
	ActiveOnly bool
	Search     string
}

func (r *TenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Tenant, error) {
	var t model.Tenant
	if err := r.DB.WithContext(ctx).First(&t, "tenant_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("tenant %s not found", id)
		}
		return nil, apperr.Internal(err, "load tenant")
	}
	return &t, nil
}

func (r *TenantRepository) Create(ctx context.Context, t *model.Tenant) error {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict("tenant email already registered for this property")
		}
		return apperr.Internal(err, "create tenant")
	}
	return nil
}

func (r *TenantRepository) List(ctx context.Context, f ListFilter, offset, limit int) ([]model.Tenant, int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Tenant{})
	if f.PropertyID != nil {
		q = q.Where("tenant_property_id = ?", *f.PropertyID)
	}
	if f.RoomID != nil {
		q = q.Where("tenant_room_id = ?", *f.RoomID)
	}
	if f.ActiveOnly {
		q = q.Where("tenant_is_active = ?", true)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("tenant_full_name LIKE ? OR tenant_email LIKE ? OR tenant_phone LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperr.Internal(err, "count tenants")
	}
	var rows []model.Tenant
	if err := q.Order("tenant_created_at DESC").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, apperr.Internal(err, "list tenants")
	}
	return rows, total, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
