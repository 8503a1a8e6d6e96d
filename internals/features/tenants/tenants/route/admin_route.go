package route

import (
	"github.com/gofiber/fiber/v2"

	"kostku_backend/internals/features/tenants/tenants/controller"
)

// TenantAdminRoutes dipasang di bawah group staff (/api/a).
func TenantAdminRoutes(r fiber.Router, ctl *controller.TenantController) {
	g := r.Group("/tenants")
	g.Post("/", ctl.Create)
	g.Get("/", ctl.List)
	g.Get("/:id", ctl.GetByID)
}
