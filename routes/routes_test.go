package routes

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartController "marketplace-api/controllers/cart"
	productController "marketplace-api/controllers/products"
	storeController "marketplace-api/controllers/stores"
)

// Gated areas must not leak their middleware onto public routes.
func TestPublicRoutesStayPublic(t *testing.T) {
	app := fiber.New()
	CartRoutes(app, cartController.NewCartController(nil, nil), "secret")
	StoreRoutes(app, storeController.NewStoreController(nil, nil, nil), "secret")
	ProductsRoute(app, productController.NewProductController(nil, nil), "secret")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/suggestions", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/details?productId=bad", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/fetchCartItems", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/seller/products", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/store/me", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}
