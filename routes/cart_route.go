package routes

import (
	"github.com/gofiber/fiber/v2"

	cartController "marketplace-api/controllers/cart"
	"marketplace-api/middlewares"
	"marketplace-api/models"
)

func CartRoutes(app *fiber.App, h *cartController.CartController, secret string) {
	auth := middlewares.Auth(secret)
	buyer := middlewares.RequireRole(models.UserTypeBuyer)

	app.Post("/api/add-to-cart", auth, buyer, h.AddToCart)
	app.Post("/api/remove-from-cart", auth, buyer, h.RemoveFromCart)
	app.Post("/api/decrement-from-cart", auth, buyer, h.DecrementFromCart)
	app.Get("/api/fetchCartItems", auth, buyer, h.GetAllCarts)
	app.Get("/api/getCartTotal", auth, buyer, h.GetCartTotals)
}
