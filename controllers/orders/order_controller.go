package controllers

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"marketplace-api/lifecycle"
	"marketplace-api/middlewares"
	"marketplace-api/models"
	"marketplace-api/repository"
	"marketplace-api/responses"
	"marketplace-api/services/orders"
)

const requestTimeout = 10 * time.Second

type OrderController struct {
	orders *orders.Service
	logger *zap.Logger
}

func NewOrderController(svc *orders.Service, logger *zap.Logger) *OrderController {
	return &OrderController{orders: svc, logger: logger}
}

type checkoutRequest struct {
	AddressID     string               `json:"addressId" form:"addressId"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod" form:"paymentMethod"`
}

type verifyPaymentRequest struct {
	OrderID         string `json:"orderId"`
	RazorpayOrderID string `json:"razorpayOrderId"`
	PaymentID       string `json:"paymentId"`
	Signature       string `json:"signature"`
}

type statusRequest struct {
	Status models.ItemStatus `json:"status" form:"status"`
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type resolveRefundRequest struct {
	Action          models.RefundAction `json:"action" form:"action"`
	RejectionReason string              `json:"rejectionReason" form:"rejectionReason"`
}

type rateRequest struct {
	Rating int `json:"rating"`
}

func (h *OrderController) Checkout(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if req.PaymentMethod == "" {
		return responses.Error(c, fiber.StatusBadRequest, "Payment method is required")
	}
	addressID, err := primitive.ObjectIDFromHex(req.AddressID)
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid address ID format")
	}

	res, err := h.orders.Checkout(ctx, middlewares.UserID(c), addressID, req.PaymentMethod)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusCreated, "Order created successfully", fiber.Map{
		"order":   buyerView(*res.Order),
		"payment": res.Payment,
	})
}

func (h *OrderController) VerifyPayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	var req verifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order ID format")
	}

	order, err := h.orders.VerifyPayment(ctx, middlewares.UserID(c), orderID, req.RazorpayOrderID, req.PaymentID, req.Signature)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Payment verified successfully", buyerView(*order))
}

func (h *OrderController) ListBuyerOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	filter, err := orderFilter(c)
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, err.Error())
	}

	list, total, err := h.orders.ListForBuyer(ctx, middlewares.UserID(c), filter)
	if err != nil {
		return h.fail(c, err)
	}
	views := make([]OrderView, 0, len(list))
	for _, o := range list {
		views = append(views, buyerView(o))
	}
	return responses.Send(c, fiber.StatusOK, "Orders fetched successfully", responses.Paged{
		Items:       views,
		CurrentPage: filter.Page.Page,
		TotalPages:  filter.Page.TotalPages(total),
		TotalItems:  total,
	})
}

func (h *OrderController) GetBuyerOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order ID format")
	}
	order, err := h.orders.GetForBuyer(ctx, middlewares.UserID(c), orderID)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Order fetched successfully", buyerView(*order))
}

func (h *OrderController) ListSellerOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	filter, err := orderFilter(c)
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, err.Error())
	}

	list, total, err := h.orders.ListForSeller(ctx, middlewares.UserID(c), filter)
	if err != nil {
		return h.fail(c, err)
	}
	views := make([]OrderView, 0, len(list))
	for _, o := range list {
		views = append(views, sellerView(o))
	}
	return responses.Send(c, fiber.StatusOK, "Orders fetched successfully", responses.Paged{
		Items:       views,
		CurrentPage: filter.Page.Page,
		TotalPages:  filter.Page.TotalPages(total),
		TotalItems:  total,
	})
}

func (h *OrderController) GetSellerOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order ID format")
	}
	order, err := h.orders.GetForSeller(ctx, middlewares.UserID(c), orderID)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Order fetched successfully", sellerView(*order))
}

// UpdateItemStatus is the seller's ship/deliver action.
func (h *OrderController) UpdateItemStatus(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	ref, ok := itemRef(c)
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order or item ID format")
	}
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid status")
	}
	if req.Status == "" {
		return responses.Error(c, fiber.StatusBadRequest, "Status is required")
	}

	order, err := h.orders.AdvanceStatus(ctx, ref, req.Status)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Order status updated", sellerView(*order))
}

func (h *OrderController) ResolveRefund(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	ref, ok := itemRef(c)
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order or item ID format")
	}
	var req resolveRefundRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid refund action")
	}
	if req.Action == "" {
		return responses.Error(c, fiber.StatusBadRequest, "Refund action is required")
	}

	order, err := h.orders.ResolveRefund(ctx, ref, req.Action, req.RejectionReason)
	if err != nil {
		return h.fail(c, err)
	}
	msg := "Refund approved"
	if req.Action == models.RefundReject {
		msg = "Refund rejected"
	}
	return responses.Send(c, fiber.StatusOK, msg, sellerView(*order))
}

func (h *OrderController) CancelItem(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	ref, ok := itemRef(c)
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order or item ID format")
	}
	var req reasonRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orders.Cancel(ctx, ref, req.Reason)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Order item cancelled", buyerView(*order))
}

func (h *OrderController) RequestRefund(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	ref, ok := itemRef(c)
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order or item ID format")
	}
	var req reasonRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orders.RequestRefund(ctx, ref, req.Reason)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Refund requested", buyerView(*order))
}

func (h *OrderController) RateItem(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
	defer cancel()

	ref, ok := itemRef(c)
	if !ok {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid order or item ID format")
	}
	var req rateRequest
	if err := c.BodyParser(&req); err != nil {
		return responses.Error(c, fiber.StatusBadRequest, "Invalid request body")
	}

	order, err := h.orders.Rate(ctx, ref, req.Rating)
	if err != nil {
		return h.fail(c, err)
	}
	return responses.Send(c, fiber.StatusOK, "Rating saved", buyerView(*order))
}

func itemRef(c *fiber.Ctx) (orders.ItemRef, bool) {
	orderID, err := primitive.ObjectIDFromHex(c.Params("orderId"))
	if err != nil {
		return orders.ItemRef{}, false
	}
	itemID, err := primitive.ObjectIDFromHex(c.Params("itemId"))
	if err != nil {
		return orders.ItemRef{}, false
	}
	return orders.ItemRef{OrderID: orderID, ItemID: itemID, UserID: middlewares.UserID(c)}, true
}

func orderFilter(c *fiber.Ctx) (repository.OrderFilter, error) {
	f := repository.OrderFilter{
		Page: repository.NewPage(int64(c.QueryInt("page", 1)), int64(c.QueryInt("limit", 10))),
	}
	if s := c.Query("status"); s != "" {
		st, err := models.ParseItemStatus(s)
		if err != nil {
			return f, err
		}
		f.Status = st
	}
	return f, nil
}

// fail maps service and lifecycle errors onto the response envelope.
func (h *OrderController) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, lifecycle.ErrReasonRequired),
		errors.Is(err, lifecycle.ErrInvalidRating),
		errors.Is(err, orders.ErrEmptyCart),
		errors.Is(err, orders.ErrAddressNotFound),
		errors.Is(err, orders.ErrProductUnavailable),
		errors.Is(err, orders.ErrInvalidSignature),
		errors.Is(err, orders.ErrInvalidInput):
		return responses.Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, orders.ErrForbidden):
		return responses.Error(c, fiber.StatusForbidden, err.Error())
	case errors.Is(err, orders.ErrOrderNotFound), errors.Is(err, orders.ErrItemNotFound):
		return responses.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, lifecycle.ErrIllegalTransition),
		errors.Is(err, lifecycle.ErrAlreadyRated),
		errors.Is(err, repository.ErrConflict):
		return responses.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return responses.Error(c, fiber.StatusGatewayTimeout, "Request timed out")
	}

	h.logger.Error("order request failed",
		zap.String("path", c.Path()),
		zap.Error(err))
	return responses.Error(c, fiber.StatusInternalServerError, "Something went wrong, please try again later")
}
