package middlewares

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/models"
)

const secret = "test-secret"

func newApp() *fiber.App {
	app := fiber.New()
	app.Get("/me", Auth(secret), func(c *fiber.Ctx) error {
		return c.SendString(UserID(c).Hex() + ":" + UserType(c))
	})
	app.Get("/seller", Auth(secret), RequireRole(models.UserTypeSeller), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func get(t *testing.T, app *fiber.App, path, auth string) int {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodGet, path, nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp.StatusCode
}

func TestAuth(t *testing.T) {
	app := newApp()
	id := primitive.NewObjectID().Hex()

	token, err := IssueToken(secret, id, models.UserTypeBuyer)
	require.NoError(t, err)

	assert.Equal(t, fiber.StatusOK, get(t, app, "/me", "Bearer "+token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", ""))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", token))
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer garbage"))

	forged, err := IssueToken("other-secret", id, models.UserTypeBuyer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer "+forged))

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  id,
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(secret))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer "+expired))

	badID, err := IssueToken(secret, "not-an-id", models.UserTypeBuyer)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, get(t, app, "/me", "Bearer "+badID))
}

func TestRequireRole(t *testing.T) {
	app := newApp()
	id := primitive.NewObjectID().Hex()

	buyer, _ := IssueToken(secret, id, models.UserTypeBuyer)
	seller, _ := IssueToken(secret, id, models.UserTypeSeller)

	assert.Equal(t, fiber.StatusForbidden, get(t, app, "/seller", "Bearer "+buyer))
	assert.Equal(t, fiber.StatusNoContent, get(t, app, "/seller", "Bearer "+seller))
}
