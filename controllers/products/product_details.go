package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/repository"
	"marketplace-api/responses"
)

func (h *ProductController) FetchProductDetails(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	objectId, err := primitive.ObjectIDFromHex(c.Query("productId"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	product, err := h.products.FindByID(ctx, objectId)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product details")
	}

	return responses.Send(c, fiber.StatusOK, "Product fetched successfully", fiber.Map{
		"product": ProductView{Product: *product, AverageRating: product.AverageRating()},
	})
}
