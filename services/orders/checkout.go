package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"marketplace-api/events"
	"marketplace-api/models"
	"marketplace-api/payments"
	"marketplace-api/repository"
)

type CheckoutResult struct {
	Order   *models.Order          `json:"order"`
	Payment *payments.GatewayOrder `json:"payment,omitempty"`
}

// Checkout turns the buyer's cart into one order. Online methods also get a
// gateway order the client completes before calling VerifyPayment.
func (s *Service) Checkout(ctx context.Context, buyerID, addressID primitive.ObjectID, method models.PaymentMethod) (*CheckoutResult, error) {
	ctx, span := s.tracer.Start(ctx, "orders.Checkout")
	defer span.End()

	method, err := models.ParsePaymentMethod(string(method))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	buyer, err := s.carts.FindByID(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(buyer.Cart) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.addresses.FindOwned(ctx, addressID, buyerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAddressNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load address: %w", err)
	}

	items, total, err := s.buildItems(ctx, buyer.Cart)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	order := &models.Order{
		ID:              primitive.NewObjectID(),
		BuyerID:         buyerID,
		ShippingAddress: address.Shipping(),
		PaymentMethod:   method,
		PaymentStatus:   models.PaymentPending,
		TotalAmount:     total,
		SellerIDs:       models.CollectSellerIDs(items),
		Items:           items,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	res := &CheckoutResult{Order: order}
	if method.Online() {
		gw, err := s.gateway.CreateOrder(ctx, "receipt_"+order.ID.Hex(), total)
		if err != nil {
			return nil, fmt.Errorf("payment gateway: %w", err)
		}
		order.RazorpayOrderID = gw.ID
		res.Payment = gw
	}

	if err := s.orders.Insert(ctx, order); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}
	if err := s.carts.ClearCart(ctx, buyerID); err != nil {
		s.logger.Warn("clear cart after checkout", zap.String("buyer_id", buyerID.Hex()), zap.Error(err))
	}

	s.placed.Add(ctx, 1, metric.WithAttributes(attribute.String("payment_method", string(method))))
	s.logger.Info("order placed",
		zap.String("order_id", order.ID.Hex()),
		zap.String("buyer_id", buyerID.Hex()),
		zap.String("payment_method", string(method)),
		zap.Int("items", len(items)),
		zap.Float64("total", total))
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderPlaced, order, buyerID, nil))

	return res, nil
}

func (s *Service) buildItems(ctx context.Context, cart []models.CartItem) ([]models.OrderItem, float64, error) {
	ids := make([]primitive.ObjectID, 0, len(cart))
	for _, c := range cart {
		ids = append(ids, c.ProductID)
	}
	products, err := s.catalog.FindByIDs(ctx, ids)
	if err != nil {
		return nil, 0, fmt.Errorf("load products: %w", err)
	}

	now := time.Now().UTC()
	items := make([]models.OrderItem, 0, len(cart))
	var total float64
	for _, c := range cart {
		product, ok := products[c.ProductID]
		if !ok {
			return nil, 0, fmt.Errorf("product %s: %w", c.ProductID.Hex(), ErrProductUnavailable)
		}
		variety, option, ok := product.Lookup(c.VarietyID, c.OptionID)
		if !ok || c.Quantity < 1 || option.Stock < c.Quantity {
			return nil, 0, fmt.Errorf("%s: %w", product.Name, ErrProductUnavailable)
		}

		var image string
		if len(variety.Images) > 0 {
			image = variety.Images[0]
		}
		items = append(items, models.OrderItem{
			ID:           primitive.NewObjectID(),
			ProductID:    product.ID,
			VarietyID:    variety.ID,
			OptionID:     option.ID,
			SellerID:     product.SellerID,
			Name:         product.Name,
			Image:        image,
			Size:         option.Size,
			Price:        option.Price,
			Quantity:     c.Quantity,
			StoreName:    product.StoreName,
			Status:       models.ItemPlaced,
			RefundStatus: models.RefundNotApplicable,
			Version:      1,
			UpdatedAt:    now,
		})
		total += option.Price * float64(c.Quantity)
	}
	return items, total, nil
}

// VerifyPayment checks the checkout signature and settles the order.
func (s *Service) VerifyPayment(ctx context.Context, buyerID, orderID primitive.ObjectID, razorpayOrderID, paymentID, signature string) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, "orders.VerifyPayment")
	defer span.End()

	if !s.gateway.VerifySignature(razorpayOrderID, paymentID, signature) {
		return nil, ErrInvalidSignature
	}

	order, err := s.orders.MarkPaid(ctx, orderID, buyerID, razorpayOrderID, paymentID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark paid: %w", err)
	}

	s.refresh(ctx, order)
	s.logger.Info("order paid", zap.String("order_id", orderID.Hex()), zap.String("payment_id", paymentID))
	s.publish(ctx, events.NewOrderEvent(events.TypeOrderPaid, order, buyerID, nil))
	return order, nil
}
