package route

import (
	"github.com/gofiber/fiber/v2"

	billingController "kostku_backend/internals/features/finance/billings/controller"
)

// BillingAdminRoutes dipasang di bawah group staff (/api/a).
func BillingAdminRoutes(r fiber.Router, ctl *billingController.BillingController) {
	g := r.Group("/billings")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
	g.Post("/:id/send", ctl.MarkSent)
}
