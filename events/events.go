// Package events publishes order item lifecycle changes to Kafka.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"marketplace-api/models"
)

const (
	TypeItemStatusChanged = "order.item.status_changed"
	TypeItemCancelled     = "order.item.cancelled"
	TypeRefundRequested   = "order.item.refund_requested"
	TypeRefundResolved    = "order.item.refund_resolved"
	TypeItemRated         = "order.item.rated"
	TypeOrderPlaced       = "order.placed"
	TypeOrderPaid         = "order.paid"
)

// OrderEvent is the message body. Item is nil for order-level events.
type OrderEvent struct {
	ID            string               `json:"id"`
	Type          string               `json:"type"`
	OrderID       primitive.ObjectID   `json:"orderId"`
	BuyerID       primitive.ObjectID   `json:"buyerId"`
	ActorID       primitive.ObjectID   `json:"actorId"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	Item          *models.OrderItem    `json:"item,omitempty"`
	OccurredAt    time.Time            `json:"occurredAt"`
}

func NewOrderEvent(typ string, order *models.Order, actorID primitive.ObjectID, item *models.OrderItem) OrderEvent {
	return OrderEvent{
		ID:            uuid.NewString(),
		Type:          typ,
		OrderID:       order.ID,
		BuyerID:       order.BuyerID,
		ActorID:       actorID,
		PaymentStatus: order.PaymentStatus,
		Item:          item,
		OccurredAt:    time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, key string, event OrderEvent) error
	Close() error
}

// NopPublisher drops events; used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, OrderEvent) error { return nil }
func (NopPublisher) Close() error                                    { return nil }
