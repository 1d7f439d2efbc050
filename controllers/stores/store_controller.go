package storeController

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

type StoreController struct {
	stores   *repository.StoreRepository
	products *repository.ProductRepository
	logger   *zap.Logger
}

func NewStoreController(stores *repository.StoreRepository, products *repository.ProductRepository, logger *zap.Logger) *StoreController {
	return &StoreController{stores: stores, products: products, logger: logger}
}

type storeRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	Logo         string `json:"logo"`
	ContactEmail string `json:"contactEmail"`
}

func (r storeRequest) store(sellerID primitive.ObjectID) (models.Store, string) {
	s := models.Store{
		ID:           sellerID,
		Name:         strings.TrimSpace(r.Name),
		Description:  strings.TrimSpace(r.Description),
		Logo:         strings.TrimSpace(r.Logo),
		ContactEmail: strings.ToLower(strings.TrimSpace(r.ContactEmail)),
	}
	if s.Name == "" {
		return s, "Store name is required"
	}
	return s, ""
}

// GetStore is the public store page.
func (h *StoreController) GetStore(c *fiber.Ctx) error {
	sellerID, err := primitive.ObjectIDFromHex(c.Params("sellerId"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid seller ID format")
	}
	return h.get(c, sellerID)
}

func (h *StoreController) GetMyStore(c *fiber.Ctx) error {
	return h.get(c, middlewares.UserID(c))
}

func (h *StoreController) get(c *fiber.Ctx, sellerID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	store, err := h.stores.Get(ctx, sellerID)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Store not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching store")
	}
	return responses.Send(c, fiber.StatusOK, "Store fetched successfully", fiber.Map{"store": store})
}

func (h *StoreController) UpsertMyStore(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody storeRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	sellerID := middlewares.UserID(c)
	store, msg := reqBody.store(sellerID)
	if msg != "" {
		return responses.Error(c, fiber.StatusBadRequest, msg)
	}

	if err := h.stores.Upsert(ctx, &store); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error saving store")
	}
	// product cards carry the store name
	if err := h.products.RenameStore(ctx, sellerID, store.Name); err != nil {
		h.logger.Warn("rename store on products failed",
			zap.String("seller_id", sellerID.Hex()), zap.Error(err))
	}

	return responses.Send(c, fiber.StatusOK, "Store saved successfully", fiber.Map{"store": store})
}
