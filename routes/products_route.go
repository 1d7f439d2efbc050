package routes

import (
	"github.com/gofiber/fiber/v2"

	controllers "marketplace-api/controllers/products"
	"marketplace-api/middlewares"
	"marketplace-api/models"
)

func ProductsRoute(app *fiber.App, h *controllers.ProductController, secret string) {
	app.Get("/api/get-all-products", h.GetAllProducts)
	app.Get("/api/search", h.SearchProducts)
	app.Get("/api/suggestions", h.GetSuggestions)
	app.Get("/api/details", h.FetchProductDetails)

	//Seller back-office
	seller := app.Group("/api/seller", middlewares.Auth(secret), middlewares.RequireRole(models.UserTypeSeller))
	seller.Get("/products", h.ListSellerProducts)
	seller.Post("/products", h.AddProduct)
	seller.Put("/products/:productId", h.UpdateProduct)
	seller.Delete("/products/:productId", h.DeleteProduct)
}
