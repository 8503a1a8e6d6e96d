package details

import (
	"github.com/gofiber/fiber/v2"

	tenantController "kostku_backend/internals/features/tenants/tenants/controller"
	tenantRepository "kostku_backend/internals/features/tenants/tenants/repository"
	tenantRoute "kostku_backend/internals/features/tenants/tenants/route"
)

func TenantAdminRoutes(r fiber.Router, repo *tenantRepository.TenantRepository) {
	tenantRoute.TenantAdminRoutes(r, tenantController.NewTenantController(repo))
}
