package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "marketplace-api/controllers/accounts"
	"marketplace-api/middlewares"
)

func AccountRoute(app *fiber.App, h *controllers.AccountController, secret string) {
	auth := middlewares.Auth(secret)

	app.Post("/api/update-profile", auth, h.UpdateUserProfile)
	app.Get("/api/get-user-profile", auth, h.GetUserProfile)
}
