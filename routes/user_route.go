package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "marketplace-api/controllers/user"
)

func UserRoute(app *fiber.App, h *controllers.UserController) {
	app.Post("/api/signup", h.SignUp)
	app.Post("/api/signin", h.SignIn)
	app.Post("/api/signout", h.SignOut)
}
