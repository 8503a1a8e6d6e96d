// file: internals/route/index.go
package route

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	tenantRepository "kostku_backend/internals/features/tenants/tenants/repository"
	"kostku_backend/internals/middlewares"
	"kostku_backend/internals/middlewares/auth"
	routeDetails "kostku_backend/internals/route/details"
)

var startTime time.Time

// Deps dibangun sekali di main.
type Deps struct {
	DB        *gorm.DB
	JWTSecret string
	Tenants   *tenantRepository.TenantRepository
	Finance   routeDetails.FinanceServices
}

func SetupRoutes(app *fiber.App, deps Deps) {
	startTime = time.Now()

	BaseRoutes(app, deps.DB)

	// ===================== WEBHOOK (public, signature) =====================
	log.Println("[INFO] Setting up WEBHOOK group...")
	webhooks := app.Group("/api/webhooks", middlewares.WebhookRateLimiter())
	routeDetails.FinanceWebhookRoutes(webhooks, deps.Finance)

	// ===================== ADMIN (staff) =====================
	log.Println("[INFO] Setting up ADMIN group (Auth + RoleCheck)...")
	admin := app.Group("/api/a",
		auth.AuthMiddleware(deps.JWTSecret),
		auth.OnlyRoles("", auth.RoleOwner, auth.RoleAdmin, auth.RoleStaff),
	)

	log.Println("[INFO] Mounting Tenant routes...")
	routeDetails.TenantAdminRoutes(admin, deps.Tenants)

	log.Println("[INFO] Mounting Finance routes...")
	routeDetails.FinanceAdminRoutes(admin, deps.Finance)
}
