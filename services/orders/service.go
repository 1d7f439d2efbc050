// Package orders runs checkout, payment settlement and the order item
// lifecycle on top of the lifecycle rules and the order repository.
package orders

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"marketplace-api/events"
	"marketplace-api/models"
	"marketplace-api/payments"
	"marketplace-api/repository"
)

var (
	ErrOrderNotFound      = errors.New("order not found")
	ErrItemNotFound       = errors.New("order item not found")
	ErrForbidden          = errors.New("not allowed to act on this order")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrAddressNotFound    = errors.New("address not found")
	ErrProductUnavailable = errors.New("product option is no longer available")
	ErrInvalidSignature   = errors.New("invalid payment signature")

	// ErrInvalidInput marks enum values outside their closed domain.
	ErrInvalidInput = errors.New("invalid input")
)

type OrderStore interface {
	Insert(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error)
	ListByBuyer(ctx context.Context, buyerID primitive.ObjectID, f repository.OrderFilter) ([]models.Order, int64, error)
	ListBySeller(ctx context.Context, sellerID primitive.ObjectID, f repository.OrderFilter) ([]models.Order, int64, error)
	UpdateItem(ctx context.Context, orderID primitive.ObjectID, expectedVersion int64, item models.OrderItem, payment models.PaymentStatus) (*models.Order, error)
	MarkPaid(ctx context.Context, orderID, buyerID primitive.ObjectID, razorpayOrderID, paymentID string) (*models.Order, error)
}

type CartStore interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	ClearCart(ctx context.Context, id primitive.ObjectID) error
}

type AddressBook interface {
	FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error)
}

type Catalog interface {
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error)
	AddRating(ctx context.Context, id primitive.ObjectID, rating int) error
}

type Deps struct {
	Orders    OrderStore
	Carts     CartStore
	Addresses AddressBook
	Catalog   Catalog
	Cache     repository.OrderCache
	Events    events.Publisher
	Gateway   payments.Gateway
	Logger    *zap.Logger
}

type Service struct {
	orders    OrderStore
	carts     CartStore
	addresses AddressBook
	catalog   Catalog
	cache     repository.OrderCache
	events    events.Publisher
	gateway   payments.Gateway
	logger    *zap.Logger

	tracer      trace.Tracer
	transitions metric.Int64Counter
	conflicts   metric.Int64Counter
	placed      metric.Int64Counter
}

func NewService(d Deps) *Service {
	if d.Cache == nil {
		d.Cache = repository.NopOrderCache{}
	}
	if d.Events == nil {
		d.Events = events.NopPublisher{}
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}

	meter := otel.Meter("marketplace-api/orders")
	transitions, _ := meter.Int64Counter("orders.item.transitions",
		metric.WithDescription("Accepted order item lifecycle actions."))
	conflicts, _ := meter.Int64Counter("orders.item.conflicts",
		metric.WithDescription("Item updates rejected because the item changed concurrently."))
	placed, _ := meter.Int64Counter("orders.placed",
		metric.WithDescription("Orders created at checkout."))

	return &Service{
		orders:      d.Orders,
		carts:       d.Carts,
		addresses:   d.Addresses,
		catalog:     d.Catalog,
		cache:       d.Cache,
		events:      d.Events,
		gateway:     d.Gateway,
		logger:      d.Logger,
		tracer:      otel.Tracer("marketplace-api/orders"),
		transitions: transitions,
		conflicts:   conflicts,
		placed:      placed,
	}
}

// publish and refresh never fail the request; the order is already stored.
func (s *Service) publish(ctx context.Context, ev events.OrderEvent) {
	if err := s.events.Publish(ctx, ev.OrderID.Hex(), ev); err != nil {
		s.logger.Warn("publish order event",
			zap.String("type", ev.Type),
			zap.String("order_id", ev.OrderID.Hex()),
			zap.Error(err))
	}
}

// refresh stores the order just written. If that fails the entry is dropped
// so readers go back to the database.
func (s *Service) refresh(ctx context.Context, order *models.Order) {
	err := s.cache.Set(ctx, order)
	if err == nil {
		return
	}
	s.logger.Warn("cache updated order", zap.String("order_id", order.ID.Hex()), zap.Error(err))
	if err := s.cache.Invalidate(ctx, order.ID); err != nil {
		s.logger.Warn("invalidate cached order", zap.String("order_id", order.ID.Hex()), zap.Error(err))
	}
}
