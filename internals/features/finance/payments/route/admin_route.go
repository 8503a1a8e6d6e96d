package route

import (
	"github.com/gofiber/fiber/v2"

	paymentController "kostku_backend/internals/features/finance/payments/controller"
)

/*
Admin routes: Payments
Contoh mount: PaymentAdminRoutes(app.Group("/api/a", authMw), ctl, evCtl)
- /api/a/payments ...
- /api/a/payment-gateway-events
*/
func PaymentAdminRoutes(r fiber.Router, ctl *paymentController.PaymentController, evCtl *paymentController.PaymentGatewayEventController) {
	pay := r.Group("/payments")
	pay.Get("/", ctl.ListPayments)
	pay.Post("/", ctl.CreatePayment) // manual / midtrans / stripe
	pay.Get("/:id", ctl.GetPaymentByID)
	pay.Get("/:id/status", ctl.CheckStatus) // refresh dari gateway (best-effort)
	pay.Post("/:id/mark-paid", ctl.MarkPaid)
	pay.Post("/:id/cancel", ctl.CancelPayment)

	r.Get("/payment-gateway-events", evCtl.ListEvents)
}
