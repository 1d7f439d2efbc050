package controllers

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
)

var emailRegex = regexp.MustCompile(`^(([^<>()[\]\.,;:\s@\"]+(\.[^<>()[\]\.,;:\s@\"]+)*)|(\".+\"))@(([^<>()[\]\.,;:\s@\"]+\.)+[^<>()[\]\.,;:\s@\"]{2,})$`)

type UserController struct {
	users     *repository.UserRepository
	jwtSecret string
	logger    *zap.Logger
}

func NewUserController(users *repository.UserRepository, jwtSecret string, logger *zap.Logger) *UserController {
	return &UserController{users: users, jwtSecret: jwtSecret, logger: logger}
}

type signUpRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	Type            string `json:"type"`
}

// validate returns the first problem as a user-facing message.
func (r *signUpRequest) validate() string {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Name = strings.TrimSpace(r.Name)
	if r.Type == "" {
		r.Type = models.UserTypeBuyer
	}

	switch {
	case r.Name == "":
		return "Name is required"
	case utf8.RuneCountInString(r.Password) < 8:
		return "Passwords must be 8 letters long"
	case r.Password != r.ConfirmPassword:
		return "Passwords do not match"
	case !emailRegex.MatchString(r.Email):
		return "Please enter a valid email address"
	case r.Type != models.UserTypeBuyer && r.Type != models.UserTypeSeller:
		return "Account type must be buyer or seller"
	}
	return ""
}

func (h *UserController) SignUp(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody signUpRequest
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}
	if msg := reqBody.validate(); msg != "" {
		return responses.Error(c, fiber.StatusBadRequest, msg)
	}

	_, err := h.users.FindByEmail(ctx, reqBody.Email)
	if err == nil {
		return responses.Error(c, fiber.StatusBadRequest, "User with same email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		h.logger.Error("check user existence", zap.Error(err))
		return responses.Error(c, fiber.StatusInternalServerError, "Error checking user existence")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqBody.Password), bcrypt.DefaultCost)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error hashing password")
	}

	newUser := models.User{
		Name:     reqBody.Name,
		Email:    reqBody.Email,
		Password: string(hashedPassword),
		Type:     reqBody.Type,
	}
	if err := h.users.Insert(ctx, &newUser); err != nil {
		h.logger.Error("insert user", zap.Error(err))
		return responses.Error(c, fiber.StatusInternalServerError, "Error in saving user, please try again later")
	}

	return responses.Send(c, fiber.StatusCreated, "User created successfully", fiber.Map{"data": newUser})
}

func (h *UserController) SignIn(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 10*time.Second)
	defer cancel()

	var reqBody struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&reqBody); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request format")
	}

	existingUser, err := h.users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(reqBody.Email)))
	if errors.Is(err, repository.ErrNotFound) {
		return responses.Error(c, fiber.StatusBadRequest, "User with this account does not exist")
	}
	if err != nil {
		h.logger.Error("find user by email", zap.Error(err))
		return responses.Error(c, fiber.StatusInternalServerError, "Error fetching from database")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(existingUser.Password), []byte(reqBody.Password)); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Incorrect password")
	}

	token, err := middlewares.IssueToken(h.jwtSecret, existingUser.Id.Hex(), existingUser.Type)
	if err != nil {
		return responses.Error(c, fiber.StatusInternalServerError, "Error while generating jwt token")
	}

	return responses.Send(c, fiber.StatusOK, "User signed in successfully", fiber.Map{
		"data": fiber.Map{
			"id":           existingUser.Id.Hex(),
			"name":         existingUser.Name,
			"profileImage": existingUser.ImageUrl,
			"email":        existingUser.Email,
			"type":         existingUser.Type,
			"cart":         existingUser.Cart,
			"token":        token,
		},
	})
}

// SignOut is stateless; clients drop the token.
func (h *UserController) SignOut(c *fiber.Ctx) error {
	if c.Get(fiber.HeaderAuthorization) == "" {
		return responses.Error(c, fiber.StatusUnauthorized, "No auth token, access denied")
	}
	return responses.Send(c, fiber.StatusOK, "User signed out successfully", nil)
}
