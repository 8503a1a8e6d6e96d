package controller

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kostku_backend/internals/features/finance/payments/dto"
	"kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/features/finance/payments/service"
	helper "kostku_backend/internals/helpers"
)

type PaymentController struct {
	Svc       *service.PaymentService
	Validator *validator.Validate
}

func NewPaymentController(svc *service.PaymentService) *PaymentController {
	return &PaymentController{Svc: svc, Validator: validator.New()}
}

/* =======================================================================
   Create
   Metode gateway → response berisi token/redirect dari gateway.
   Gateway gagal → 502; payment tetap tersimpan pending untuk ditindaklanjuti.
======================================================================= */

// POST /payments
func (h *PaymentController) CreatePayment(c *fiber.Ctx) error {
	var req dto.CreatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
	}
	req.Normalize()
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}
	in, err := req.ToInput()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, err.Error())
	}

	p, err := h.Svc.CreatePayment(c.UserContext(), in)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonCreated(c, "payment created", dto.FromModel(p))
}

// GET /payments/:id
func (h *PaymentController) GetPaymentByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	p, err := h.Svc.GetPayment(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(p))
}

// GET /payments/:id/status, refresh dari gateway bila ada correlation id
func (h *PaymentController) CheckStatus(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	p, err := h.Svc.CheckStatus(c.UserContext(), id)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(p))
}

// GET /payments?tenant_id=&property_id=&billing_id=&status=&method=&type=&due_from=&due_to=&page=&per_page=
func (h *PaymentController) ListPayments(c *fiber.Ctx) error {
	var f service.PaymentFilter
	for key, dst := range map[string]**uuid.UUID{
		"tenant_id":   &f.TenantID,
		"property_id": &f.PropertyID,
		"billing_id":  &f.BillingID,
	} {
		if s := strings.TrimSpace(c.Query(key)); s != "" {
			id, err := uuid.Parse(s)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "invalid "+key)
			}
			*dst = &id
		}
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		st := model.PaymentStatus(s)
		if !st.IsValid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("method"))); s != "" {
		m := model.PaymentMethod(s)
		if !m.IsValid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid method")
		}
		f.Method = &m
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("type"))); s != "" {
		t := model.PaymentType(s)
		if !t.IsValid() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid type")
		}
		f.Type = &t
	}
	for key, dst := range map[string]**time.Time{"due_from": &f.DueFrom, "due_to": &f.DueTo} {
		if s := strings.TrimSpace(c.Query(key)); s != "" {
			t, err := dto.ParseDate(s)
			if err != nil {
				return helper.JsonError(c, fiber.StatusBadRequest, "invalid "+key)
			}
			*dst = &t
		}
	}

	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Svc.ListPayments(c.UserContext(), f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, p, len(rows)))
}

/* =======================================================================
   Staff actions
======================================================================= */

// POST /payments/:id/mark-paid
func (h *PaymentController) MarkPaid(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var req dto.MarkPaidRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
		}
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := h.Svc.MarkPaid(c.UserContext(), id, req.PaymentPaidAt, req.PaymentNote)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "payment marked as paid", dto.FromModel(p))
}

// POST /payments/:id/cancel
func (h *PaymentController) CancelPayment(c *fiber.Ctx) error {
	id, err := uuid.Parse(strings.TrimSpace(c.Params("id")))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "invalid id")
	}
	var req dto.CancelPaymentRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid json: "+err.Error())
		}
	}
	if err := h.Validator.Struct(&req); err != nil {
		return helper.ValidationError(c, err)
	}

	p, err := h.Svc.CancelPayment(c.UserContext(), id, req.Reason)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonUpdated(c, "payment cancelled", dto.FromModel(p))
}
