package routes

import (
	"github.com/gofiber/fiber/v2"

	orderController "marketplace-api/controllers/orders"
	"marketplace-api/middlewares"
	"marketplace-api/models"
)

func OrderRoutes(app *fiber.App, h *orderController.OrderController, secret string) {
	auth := middlewares.Auth(secret)

	buyer := app.Group("/api/user", auth, middlewares.RequireRole(models.UserTypeBuyer))
	buyer.Post("/order", h.Checkout)
	buyer.Post("/order/verify-payment", h.VerifyPayment)
	buyer.Get("/orders", h.ListBuyerOrders)
	buyer.Get("/order/:orderId", h.GetBuyerOrder)
	buyer.Post("/order/:orderId/:itemId/cancel", h.CancelItem)
	buyer.Post("/order/:orderId/:itemId/refund", h.RequestRefund)
	buyer.Post("/order/:orderId/:itemId/rate", h.RateItem)

	seller := middlewares.RequireRole(models.UserTypeSeller)
	app.Get("/api/orders", auth, seller, h.ListSellerOrders)
	app.Get("/api/order/:orderId", auth, seller, h.GetSellerOrder)
	app.Post("/api/order/:orderId/:itemId/status", auth, seller, h.UpdateItemStatus)
	app.Patch("/api/order/:orderId/:itemId/refund", auth, seller, h.ResolveRefund)
}
