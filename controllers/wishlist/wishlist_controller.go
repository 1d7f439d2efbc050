package wishlistController

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

type WishlistController struct {
	users    *repository.UserRepository
	products *repository.ProductRepository
}

func NewWishlistController(users *repository.UserRepository, products *repository.ProductRepository) *WishlistController {
	return &WishlistController{users: users, products: products}
}

func (h *WishlistController) ToggleWishlist(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var request struct {
		ProductID string `json:"productId"`
	}
	if err := c.BodyParser(&request); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request")
	}
	productID, err := primitive.ObjectIDFromHex(request.ProductID)
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid product ID format")
	}

	if _, err := h.products.FindByID(ctx, productID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return responses.Error(c, fiber.StatusNotFound, "Product not found")
		}
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching product details")
	}

	added, err := h.users.ToggleWishlist(ctx, middlewares.UserID(c), productID)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Failed to update wishlist")
	}

	message := "Removed from wishlist"
	if added {
		message = "Added to wishlist"
	}
	return responses.Send(c, fiber.StatusOK, message, fiber.Map{"wishlisted": added})
}

func (h *WishlistController) GetWishlist(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByID(ctx, middlewares.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching wishlist")
	}

	products := map[primitive.ObjectID]models.Product{}
	if len(user.Wishlist) > 0 {
		products, err = h.products.FindByIDs(ctx, user.Wishlist)
		if err != nil {
			return responses.Error(c, fiber.StatusInternalServerError, "Error fetching wishlist")
		}
	}

	return responses.Send(c, fiber.StatusOK, "Wishlist fetched successfully", fiber.Map{
		"products": ordered(user.Wishlist, products),
	})
}

// ordered keeps wishlist order and drops products that were deleted since.
func ordered(ids []primitive.ObjectID, products map[primitive.ObjectID]models.Product) []models.Product {
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := products[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
