package routes

import (
	"github.com/gofiber/fiber/v2"

	storeController "marketplace-api/controllers/stores"
	"marketplace-api/middlewares"
	"marketplace-api/models"
)

func StoreRoutes(app *fiber.App, h *storeController.StoreController, secret string) {
	// registered before /api/store/:sellerId so "me" is not parsed as an id
	seller := []fiber.Handler{middlewares.Auth(secret), middlewares.RequireRole(models.UserTypeSeller)}
	app.Get("/api/store/me", append(seller, h.GetMyStore)...)
	app.Put("/api/store/me", append(seller, h.UpsertMyStore)...)

	app.Get("/api/store/:sellerId", h.GetStore)
}
