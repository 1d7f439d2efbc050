package routes

import (
	"github.com/gofiber/fiber/v2"

	addressController "marketplace-api/controllers/addresses"
	"marketplace-api/middlewares"
)

func AddressRoutes(app *fiber.App, h *addressController.AddressController, secret string) {
	auth := middlewares.Auth(secret)

	app.Post("/api/add-address", auth, h.AddAddress)
	app.Get("/api/get-addresses", auth, h.GetAddresses)
	app.Delete("/api/address", auth, h.DeleteAddress)
	app.Put("/api/edit-address", auth, h.EditAddress)
}
