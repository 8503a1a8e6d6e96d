package controller

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"kostku_backend/internals/features/finance/payments/dto"
	"kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/features/finance/payments/service"
	helper "kostku_backend/internals/helpers"
)

/* =======================================================================
   Controller: audit log webhook (read-only)
======================================================================= */

type PaymentGatewayEventController struct {
	Store *service.PaymentStore
}

func NewPaymentGatewayEventController(store *service.PaymentStore) *PaymentGatewayEventController {
	return &PaymentGatewayEventController{Store: store}
}

/* =======================================================================
   List (filter + pagination)
   Query params:
     - provider: midtrans|stripe
     - status: received|processed|ignored|failed
     - payment_id: uuid
     - external_id: order id / payment intent id
     - start, end: RFC3339 (filter received_at)
     - page (default 1), per_page/limit (default 20, max 200)
======================================================================= */

func (h *PaymentGatewayEventController) ListEvents(c *fiber.Ctx) error {
	var f service.EventFilter

	if p := strings.ToLower(strings.TrimSpace(c.Query("provider"))); p != "" {
		m := model.PaymentMethod(p)
		if !m.IsGateway() {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid provider")
		}
		f.Provider = &m
	}
	if s := strings.ToLower(strings.TrimSpace(c.Query("status"))); s != "" {
		st := model.GatewayEventStatus(s)
		switch st {
		case model.GatewayEventStatusReceived, model.GatewayEventStatusProcessed,
			model.GatewayEventStatusIgnored, model.GatewayEventStatusFailed:
		default:
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid status")
		}
		f.Status = &st
	}
	if pid := strings.TrimSpace(c.Query("payment_id")); pid != "" {
		id, err := uuid.Parse(pid)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid payment_id")
		}
		f.PaymentID = &id
	}
	f.ExternalID = strings.TrimSpace(c.Query("external_id"))

	if s := strings.TrimSpace(c.Query("start")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid start (use RFC3339)")
		}
		f.From = &t
	}
	if s := strings.TrimSpace(c.Query("end")); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid end (use RFC3339)")
		}
		f.To = &t
	}

	p := helper.ResolvePaging(c, 20, 200)
	rows, total, err := h.Store.ListEvents(c.UserContext(), f, p.Offset, p.Limit)
	if err != nil {
		return helper.JsonFromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromGatewayEventModels(rows), helper.BuildPagination(total, p, len(rows)))
}
