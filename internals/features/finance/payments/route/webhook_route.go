package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "kostku_backend/internals/features/finance/payments/controller"
)

// PaymentWebhookRoutes: dipasang di /api/webhooks, publik, autentikasi lewat signature masing-masing gateway.
func PaymentWebhookRoutes(r fiber.Router, ctl *paymentController.WebhookController) {
	r.Post("/midtrans", ctl.Midtrans) // POST /api/webhooks/midtrans
	r.Post("/stripe", ctl.Stripe)     // POST /api/webhooks/stripe
}
