package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/services/orders"
	"marketplace-api/services/orders/orderstest"
)

const jwtSecret = "controller-secret"

type harness struct {
	app    *fiber.App
	store  *orderstest.Orders
	order  models.Order
	buyer  string
	seller string
	other  string
}

func newHarness(t *testing.T, method models.PaymentMethod, statuses ...models.ItemStatus) *harness {
	t.Helper()

	buyerID := primitive.NewObjectID()
	sellerID := primitive.NewObjectID()

	order := models.Order{
		ID:            primitive.NewObjectID(),
		BuyerID:       buyerID,
		PaymentMethod: method,
		PaymentStatus: models.PaymentPending,
		CreatedAt:     time.Now().UTC(),
	}
	for _, st := range statuses {
		order.Items = append(order.Items, models.OrderItem{
			ID:           primitive.NewObjectID(),
			ProductID:    primitive.NewObjectID(),
			SellerID:     sellerID,
			Status:       st,
			RefundStatus: models.RefundNotApplicable,
			Version:      1,
		})
	}

	store := orderstest.NewOrders(order)
	svc := orders.NewService(orders.Deps{
		Orders:    store,
		Carts:     orderstest.NewCarts(),
		Addresses: orderstest.Addresses{},
		Catalog:   orderstest.NewCatalog(),
		Gateway:   orderstest.Gateway{Secret: "s"},
	})
	h := NewOrderController(svc, zap.NewNop())

	app := fiber.New()
	auth := middlewares.Auth(jwtSecret)
	seller := middlewares.RequireRole(models.UserTypeSeller)
	buyer := middlewares.RequireRole(models.UserTypeBuyer)

	app.Post("/api/user/order", auth, buyer, h.Checkout)
	app.Get("/api/user/order/:orderId", auth, buyer, h.GetBuyerOrder)
	app.Post("/api/user/order/:orderId/:itemId/cancel", auth, buyer, h.CancelItem)
	app.Post("/api/user/order/:orderId/:itemId/refund", auth, buyer, h.RequestRefund)
	app.Post("/api/user/order/:orderId/:itemId/rate", auth, buyer, h.RateItem)
	app.Get("/api/orders", auth, seller, h.ListSellerOrders)
	app.Post("/api/order/:orderId/:itemId/status", auth, seller, h.UpdateItemStatus)
	app.Patch("/api/order/:orderId/:itemId/refund", auth, seller, h.ResolveRefund)

	token := func(id primitive.ObjectID, typ string) string {
		tok, err := middlewares.IssueToken(jwtSecret, id.Hex(), typ)
		require.NoError(t, err)
		return tok
	}

	return &harness{
		app:    app,
		store:  store,
		order:  order,
		buyer:  token(buyerID, models.UserTypeBuyer),
		seller: token(sellerID, models.UserTypeSeller),
		other:  token(primitive.NewObjectID(), models.UserTypeSeller),
	}
}

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

func (h *harness) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()
	return h.send(t, method, path, token, fiber.MIMEApplicationJSON, body)
}

func (h *harness) form(t *testing.T, method, path, token string, values url.Values) (int, envelope) {
	t.Helper()
	return h.send(t, method, path, token, fiber.MIMEApplicationForm, values.Encode())
}

func (h *harness) send(t *testing.T, method, path, token, contentType, body string) (int, envelope) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(fiber.HeaderContentType, contentType)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := h.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	assert.Equal(t, resp.StatusCode, env.Status)
	return resp.StatusCode, env
}

func (h *harness) itemPath(prefix string, i int, action string) string {
	return prefix + h.order.ID.Hex() + "/" + h.order.Items[i].ID.Hex() + "/" + action
}

type itemBody struct {
	ID           primitive.ObjectID  `json:"id"`
	Status       models.ItemStatus   `json:"status"`
	RefundStatus models.RefundStatus `json:"refundStatus"`
	Rating       int                 `json:"rating"`
	Version      int64               `json:"version"`
	Actions      []string            `json:"actions"`
}

type orderBody struct {
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Items         []itemBody           `json:"items"`
}

func decodeOrder(t *testing.T, env envelope) orderBody {
	t.Helper()
	var body orderBody
	require.NoError(t, json.Unmarshal(env.Result, &body))
	return body
}

func TestSellerShipsAndDeliversCOD(t *testing.T) {
	h := newHarness(t, models.PaymentCOD, models.ItemPlaced)

	code, env := h.do(t, fiber.MethodPost, h.itemPath("/api/order/", 0, "status"), h.seller, `{"status":"Shipped"}`)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	v := decodeOrder(t, env)
	assert.Equal(t, models.ItemShipped, v.Items[0].Status)
	assert.Equal(t, []string{"deliver"}, v.Items[0].Actions)

	code, env = h.do(t, fiber.MethodPost, h.itemPath("/api/order/", 0, "status"), h.seller, `{"status":"Delivered"}`)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	v = decodeOrder(t, env)
	assert.Equal(t, models.ItemDelivered, v.Items[0].Status)
	assert.Equal(t, models.PaymentPaid, v.PaymentStatus)
	assert.Equal(t, int64(3), v.Items[0].Version)
}

func TestUpdateStatusErrors(t *testing.T) {
	h := newHarness(t, models.PaymentUPI, models.ItemPlaced)
	path := h.itemPath("/api/order/", 0, "status")

	code, _ := h.do(t, fiber.MethodPost, path, h.seller, `{"status":"Lost"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPost, path, h.seller, `{}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPost, path, h.seller, `{"status":"Delivered"}`)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPost, path, h.other, `{"status":"Shipped"}`)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = h.do(t, fiber.MethodPost, path, h.buyer, `{"status":"Shipped"}`)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = h.do(t, fiber.MethodPost, path, "", `{"status":"Shipped"}`)
	assert.Equal(t, fiber.StatusUnauthorized, code)

	code, _ = h.do(t, fiber.MethodPost, "/api/order/nope/"+h.order.Items[0].ID.Hex()+"/status", h.seller, `{"status":"Shipped"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPost, "/api/order/"+h.order.ID.Hex()+"/"+primitive.NewObjectID().Hex()+"/status", h.seller, `{"status":"Shipped"}`)
	assert.Equal(t, fiber.StatusNotFound, code)

	code, _ = h.do(t, fiber.MethodPost, "/api/order/"+primitive.NewObjectID().Hex()+"/"+h.order.Items[0].ID.Hex()+"/status", h.seller, `{"status":"Shipped"}`)
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestBuyerCancel(t *testing.T) {
	h := newHarness(t, models.PaymentCOD, models.ItemPlaced, models.ItemShipped)

	code, _ := h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "cancel"), h.buyer, `{"reason":"  "}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env := h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "cancel"), h.buyer, `{"reason":"found cheaper"}`)
	require.Equal(t, fiber.StatusOK, code, env.Message)
	v := decodeOrder(t, env)
	assert.Equal(t, models.ItemCancelled, v.Items[0].Status)
	assert.Empty(t, v.Items[0].Actions)

	code, _ = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "cancel"), h.buyer, `{"reason":"found cheaper"}`)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 1, "cancel"), h.buyer, `{"reason":"late"}`)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestRefundAndRating(t *testing.T) {
	h := newHarness(t, models.PaymentCard, models.ItemDelivered)

	code, env := h.do(t, fiber.MethodGet, "/api/user/order/"+h.order.ID.Hex(), h.buyer, "")
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, []string{"request_refund", "rate"}, decodeOrder(t, env).Items[0].Actions)

	code, _ = h.do(t, fiber.MethodPatch, h.itemPath("/api/order/", 0, "refund"), h.seller, `{"action":"approve"}`)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "refund"), h.buyer, `{"reason":"wrong colour"}`)
	require.Equal(t, fiber.StatusOK, code)

	code, _ = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "refund"), h.buyer, `{"reason":"again"}`)
	assert.Equal(t, fiber.StatusConflict, code)

	code, _ = h.do(t, fiber.MethodPatch, h.itemPath("/api/order/", 0, "refund"), h.seller, `{"action":"maybe"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.do(t, fiber.MethodPatch, h.itemPath("/api/order/", 0, "refund"), h.seller, `{"action":"reject"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env = h.do(t, fiber.MethodPatch, h.itemPath("/api/order/", 0, "refund"), h.seller, `{"action":"approve"}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, models.RefundApproved, decodeOrder(t, env).Items[0].RefundStatus)

	code, _ = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "rate"), h.buyer, `{"rating":0}`)
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "rate"), h.buyer, `{"rating":5}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, 5, decodeOrder(t, env).Items[0].Rating)

	code, _ = h.do(t, fiber.MethodPost, h.itemPath("/api/user/order/", 0, "rate"), h.buyer, `{"rating":4}`)
	assert.Equal(t, fiber.StatusConflict, code)
}

func TestSellerListFiltersByStatus(t *testing.T) {
	h := newHarness(t, models.PaymentCOD, models.ItemPlaced, models.ItemShipped)

	code, env := h.do(t, fiber.MethodGet, "/api/orders?status=Shipped", h.seller, "")
	require.Equal(t, fiber.StatusOK, code)
	var page struct {
		Items      []orderBody `json:"items"`
		TotalItems int64       `json:"totalItems"`
		TotalPages int64       `json:"totalPages"`
	}
	require.NoError(t, json.Unmarshal(env.Result, &page))
	assert.Equal(t, int64(1), page.TotalItems)
	assert.Equal(t, int64(1), page.TotalPages)
	require.Len(t, page.Items, 1)
	require.Len(t, page.Items[0].Items, 1)
	assert.Equal(t, h.order.Items[1].ID, page.Items[0].Items[0].ID)
	assert.Equal(t, models.ItemShipped, page.Items[0].Items[0].Status)

	code, _ = h.do(t, fiber.MethodGet, "/api/orders?status=Lost", h.seller, "")
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, env = h.do(t, fiber.MethodGet, "/api/orders", h.other, "")
	require.Equal(t, fiber.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Result, &page))
	assert.Equal(t, int64(0), page.TotalItems)
}

func TestFormBodiesRejectUnknownValues(t *testing.T) {
	h := newHarness(t, models.PaymentUPI, models.ItemPlaced)

	code, _ := h.form(t, fiber.MethodPost, "/api/user/order", h.buyer, url.Values{
		"addressId":     {primitive.NewObjectID().Hex()},
		"paymentMethod": {"Bitcoin"},
	})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.form(t, fiber.MethodPost, h.itemPath("/api/order/", 0, "status"), h.seller, url.Values{"status": {"Lost"}})
	assert.Equal(t, fiber.StatusBadRequest, code)

	code, _ = h.form(t, fiber.MethodPatch, h.itemPath("/api/order/", 0, "refund"), h.seller, url.Values{"action": {"foo"}})
	assert.Equal(t, fiber.StatusBadRequest, code)

	stored, err := h.store.FindByID(context.Background(), h.order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ItemPlaced, stored.Items[0].Status)
	assert.Equal(t, int64(1), stored.Items[0].Version)

	code, env := h.form(t, fiber.MethodPost, h.itemPath("/api/order/", 0, "status"), h.seller, url.Values{"status": {"Shipped"}})
	require.Equal(t, fiber.StatusOK, code, env.Message)
}
