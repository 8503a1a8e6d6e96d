package controller

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kostku_backend/internals/features/finance/billings/dto"
	"kostku_backend/internals/features/finance/billings/model"
	"kostku_backend/internals/features/finance/billings/service"
	helper "kostku_backend/internals/helpers"
)

type BillingController struct {
	Svc       *service.BillingService
	Validator *validator.Validate
}

func NewBillingController(svc *service.BillingService) *BillingController {
	return &BillingController{Svc: svc, Validator: validator.New()}
}

// POST /billings
func (h *BillingController) Create(c *fiber.Ctx) error {
	var req dto.CreateBillingRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	b, err := h.Svc.CreateBilling(c.UserContext(), req.ToInput())
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "billing created", dto.FromModel(b))
}

// GET /billings/:id (termasuk payment & total)
func (h *BillingController) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	d, err := h.Svc.GetBilling(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromDetail(d))
}

// GET /billings?tenant_id=&property_id=&status=&page=&per_page=
func (h *BillingController) List(c *fiber.Ctx) error {
	var f service.ListFilter
	if s := strings.TrimSpace(c.Query("tenant_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid tenant_id")
		}
		f.TenantID = &id
	}
	if s := strings.TrimSpace(c.Query("property_id")); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid property_id")
		}
		f.PropertyID = &id
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		st := model.BillingStatus(s)
		if !st.IsValid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}

	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Svc.ListBillings(c.UserContext(), f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

// POST /billings/:id/send
func (h *BillingController) MarkSent(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	b, err := h.Svc.MarkSent(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "billing sent", dto.FromModel(b))
}
