package routes

import (
	"github.com/gofiber/fiber/v2"

	wishlistController "marketplace-api/controllers/wishlist"
	"marketplace-api/middlewares"
	"marketplace-api/models"
)

func WishlistRoutes(app *fiber.App, h *wishlistController.WishlistController, secret string) {
	auth := middlewares.Auth(secret)
	buyer := middlewares.RequireRole(models.UserTypeBuyer)

	app.Post("/api/wishlist", auth, buyer, h.ToggleWishlist)
	app.Get("/api/wishlist", auth, buyer, h.GetWishlist)
}
