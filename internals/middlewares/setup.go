package middlewares

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"

	"kostku_backend/internals/middlewares/logger"
)

// SetupMiddlewares: urutan penting. Recovery paling luar, request id sebelum logger.
func SetupMiddlewares(app *fiber.App, corsOrigins []string, requestTimeout time.Duration) {
	app.Use(RecoveryMiddleware())
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault}))
	app.Use(etag.New())
	app.Use(RequestContextMiddleware(requestTimeout))
	app.Use(CorsMiddleware(corsOrigins))
	app.Use(logger.LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}
