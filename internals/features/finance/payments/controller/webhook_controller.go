package controller

import (
	"github.com/gofiber/fiber/v2"

	"kostku_backend/internals/features/finance/payments/model"
	"kostku_backend/internals/features/finance/payments/service"
	"kostku_backend/internals/helpers/apperr"
)

/* =======================================================================
   Webhook: dipanggil gateway, bukan oleh user.
   Sukses: 200 {received:true}; gagal: 4xx/5xx {error}.
======================================================================= */

type WebhookController struct {
	Svc *service.WebhookService
}

func NewWebhookController(svc *service.WebhookService) *WebhookController {
	return &WebhookController{Svc: svc}
}

// POST /webhooks/midtrans
func (h *WebhookController) Midtrans(c *fiber.Ctx) error {
	return h.handle(c, model.PaymentMethodMidtrans)
}

// POST /webhooks/stripe
func (h *WebhookController) Stripe(c *fiber.Ctx) error {
	return h.handle(c, model.PaymentMethodStripe)
}

func (h *WebhookController) handle(c *fiber.Ctx, provider model.PaymentMethod) error {
	// body disalin: buffer fasthttp dipakai ulang setelah handler selesai
	payload := append([]byte(nil), c.Body()...)

	res, err := h.Svc.HandleWebhook(c.UserContext(), provider, payload, func(k string) string { return c.Get(k) })
	if err != nil {
		kind := apperr.KindOf(err)
		return c.Status(apperr.HTTPStatus(kind)).JSON(fiber.Map{"error": apperr.PublicMessage(err)})
	}

	out := fiber.Map{"received": true}
	if res.Ignored {
		out["ignored"] = true
	} else {
		out["payment_id"] = res.PaymentID
		out["status"] = res.Status
		out["changed"] = res.Changed
	}
	return c.JSON(out)
}
