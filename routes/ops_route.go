package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
)

// OpsRoutes exposes the Prometheus scrape endpoint and a liveness probe.
func OpsRoutes(app *fiber.App, metrics http.Handler) {
	app.Get("/metrics", adaptor.HTTPHandler(metrics))
	app.Get("/api/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
