package controllers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"marketplace-api/middlewares"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

type AccountController struct {
	users *repository.UserRepository
}

func NewAccountController(users *repository.UserRepository) *AccountController {
	return &AccountController{users: users}
}

func (h *AccountController) GetUserProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	user, err := h.users.FindByID(ctx, middlewares.UserID(c))
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching user data")
	}

	return responses.Send(c, fiber.StatusOK, "Profile fetched successfully", fiber.Map{"data": user})
}

func (h *AccountController) UpdateUserProfile(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		Name     string `json:"name"`
		ImageUrl string `json:"profileImage"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	reqBody.Name = strings.TrimSpace(reqBody.Name)
	if reqBody.Name == "" {
		return responses.Error(c, fiber.StatusBadRequest, "Name is required")
	}

	err := h.users.UpdateProfile(ctx, middlewares.UserID(c), reqBody.Name, reqBody.ImageUrl)
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusNotFound, "User not found")
	}
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error updating user profile")
	}

	return responses.Send(c, fiber.StatusOK, "Profile updated successfully", fiber.Map{
		"data": fiber.Map{"name": reqBody.Name, "profileImage": reqBody.ImageUrl},
	})
}
