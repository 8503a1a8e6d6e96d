// file: internals/route/details/finance_routes.go
package details

import (
	"github.com/gofiber/fiber/v2"

	billingController "kostku_backend/internals/features/finance/billings/controller"
	billingRoute "kostku_backend/internals/features/finance/billings/route"
	billingService "kostku_backend/internals/features/finance/billings/service"
	paymentController "kostku_backend/internals/features/finance/payments/controller"
	paymentRoute "kostku_backend/internals/features/finance/payments/route"
	paymentService "kostku_backend/internals/features/finance/payments/service"
)

type FinanceServices struct {
	Billings *billingService.BillingService
	Payments *paymentService.PaymentService
	Webhooks *paymentService.WebhookService
}

func FinanceAdminRoutes(r fiber.Router, svc FinanceServices) {
	billingRoute.BillingAdminRoutes(r, billingController.NewBillingController(svc.Billings))
	paymentRoute.PaymentAdminRoutes(r,
		paymentController.NewPaymentController(svc.Payments),
		paymentController.NewPaymentGatewayEventController(svc.Payments.Store),
	)
}

// FinanceWebhookRoutes tanpa JWT; autentikasi lewat signature gateway.
func FinanceWebhookRoutes(r fiber.Router, svc FinanceServices) {
	paymentRoute.PaymentWebhookRoutes(r, paymentController.NewWebhookController(svc.Webhooks))
}
