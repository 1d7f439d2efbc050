package controllers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"marketplace-api/models"
)

func TestSignUpValidation(t *testing.T) {
	// validation fails before the repository is touched
	h := NewUserController(nil, "secret", zap.NewNop())
	app := fiber.New()
	app.Post("/api/signup", h.SignUp)

	cases := map[string]struct {
		body    string
		message string
	}{
		"short password": {`{"name":"A","email":"a@b.co","password":"short","confirmPassword":"short"}`, "Passwords must be 8 letters long"},
		"mismatch":       {`{"name":"A","email":"a@b.co","password":"longenough","confirmPassword":"different1"}`, "Passwords do not match"},
		"bad email":      {`{"name":"A","email":"nope","password":"longenough","confirmPassword":"longenough"}`, "Please enter a valid email address"},
		"bad type":       {`{"name":"A","email":"a@b.co","password":"longenough","confirmPassword":"longenough","type":"admin"}`, "Account type must be buyer or seller"},
		"no name":        {`{"email":"a@b.co","password":"longenough","confirmPassword":"longenough"}`, "Name is required"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, "/api/signup", strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

			var body struct {
				Message string `json:"message"`
			}
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.message, body.Message)
		})
	}
}

func TestSignUpDefaultsToBuyer(t *testing.T) {
	r := signUpRequest{Name: " Asha ", Email: " Asha@Example.com ", Password: "longenough", ConfirmPassword: "longenough"}
	assert.Empty(t, r.validate())
	assert.Equal(t, models.UserTypeBuyer, r.Type)
	assert.Equal(t, "asha@example.com", r.Email)
	assert.Equal(t, "Asha", r.Name)
}

func TestSignOutNeedsToken(t *testing.T) {
	h := NewUserController(nil, "secret", zap.NewNop())
	app := fiber.New()
	app.Post("/api/signout", h.SignOut)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/api/signout", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
