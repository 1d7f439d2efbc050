package addressController

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

type AddressController struct {
	addresses *repository.AddressRepository
}

func NewAddressController(addresses *repository.AddressRepository) *AddressController {
	return &AddressController{addresses: addresses}
}

type addressRequest struct {
	Label   string `json:"label"`
	Lane    string `json:"lane"`
	City    string `json:"city"`
	State   string `json:"state"`
	PinCode string `json:"pinCode"`
}

func (r addressRequest) complete() bool {
	for _, f := range []string{r.Lane, r.City, r.State, r.PinCode} {
		if strings.TrimSpace(f) == "" {
			return false
		}
	}
	return true
}

func (r addressRequest) address(id, userID primitive.ObjectID) models.Address {
	return models.Address{
		Id:      id,
		UserId:  userID,
		Label:   strings.TrimSpace(r.Label),
		Lane:    strings.TrimSpace(r.Lane),
		City:    strings.TrimSpace(r.City),
		State:   strings.TrimSpace(r.State),
		PinCode: strings.TrimSpace(r.PinCode),
	}
}

func (h *AddressController) AddAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody addressRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if !reqBody.complete() {
		return responses.Error(c, fiber.StatusBadRequest, "Lane, city, state and pin code are required")
	}

	newAddress := reqBody.address(primitive.NilObjectID, middlewares.UserID(c))
	if err := h.addresses.Insert(ctx, &newAddress); err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error adding address")
	}

	return responses.Send(c, fiber.StatusCreated, "Address added successfully", fiber.Map{"address": newAddress})
}

func (h *AddressController) GetAddresses(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	addresses, err := h.addresses.ListByUser(ctx, middlewares.UserID(c))
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching addresses")
	}

	return responses.Send(c, fiber.StatusOK, "Addresses fetched successfully", fiber.Map{"addresses": addresses})
}

func (h *AddressController) EditAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	addressID, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid address ID")
	}

	var reqBody addressRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if !reqBody.complete() {
		return responses.Error(c, fiber.StatusBadRequest, "Lane, city, state and pin code are required")
	}

	updated := reqBody.address(addressID, middlewares.UserID(c))
	err = h.addresses.UpdateOwned(ctx, &updated)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Address not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating address")
	}

	return responses.Send(c, fiber.StatusOK, "Address updated successfully", fiber.Map{"address": updated})
}

func (h *AddressController) DeleteAddress(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	addressID, err := primitive.ObjectIDFromHex(c.Query("id"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid address ID")
	}

	err = h.addresses.DeleteOwned(ctx, addressID, middlewares.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "Address not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error deleting address")
	}

	return responses.Send(c, fiber.StatusOK, "Address deleted successfully", nil)
}
