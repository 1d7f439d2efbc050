package orders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"marketplace-api/events"
	"marketplace-api/lifecycle"
	"marketplace-api/models"
	"marketplace-api/repository"
)

type actor int

const (
	asBuyer actor = iota
	asSeller
)

// ItemRef addresses one item of one order on behalf of a user.
type ItemRef struct {
	OrderID primitive.ObjectID
	ItemID  primitive.ObjectID
	UserID  primitive.ObjectID
}

type decision func(order *models.Order, item models.OrderItem) (lifecycle.Outcome, error)

// AdvanceStatus moves a seller's item along the fulfilment table.
func (s *Service) AdvanceStatus(ctx context.Context, ref ItemRef, target models.ItemStatus) (*models.Order, error) {
	target, err := models.ParseItemStatus(string(target))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.mutate(ctx, "orders.AdvanceStatus", ref, asSeller, func(o *models.Order, it models.OrderItem) (lifecycle.Outcome, error) {
		return lifecycle.Advance(it, o.PaymentMethod, o.PaymentStatus, target)
	})
}

func (s *Service) Cancel(ctx context.Context, ref ItemRef, reason string) (*models.Order, error) {
	return s.mutate(ctx, "orders.Cancel", ref, asBuyer, func(_ *models.Order, it models.OrderItem) (lifecycle.Outcome, error) {
		return lifecycle.Cancel(it, reason)
	})
}

func (s *Service) RequestRefund(ctx context.Context, ref ItemRef, reason string) (*models.Order, error) {
	return s.mutate(ctx, "orders.RequestRefund", ref, asBuyer, func(_ *models.Order, it models.OrderItem) (lifecycle.Outcome, error) {
		return lifecycle.RequestRefund(it, reason)
	})
}

func (s *Service) ResolveRefund(ctx context.Context, ref ItemRef, action models.RefundAction, rejectionReason string) (*models.Order, error) {
	action, err := models.ParseRefundAction(string(action))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return s.mutate(ctx, "orders.ResolveRefund", ref, asSeller, func(_ *models.Order, it models.OrderItem) (lifecycle.Outcome, error) {
		return lifecycle.ResolveRefund(it, action, rejectionReason)
	})
}

// Rate stores the buyer's rating and feeds it into the product's average.
func (s *Service) Rate(ctx context.Context, ref ItemRef, rating int) (*models.Order, error) {
	order, err := s.mutate(ctx, "orders.Rate", ref, asBuyer, func(_ *models.Order, it models.OrderItem) (lifecycle.Outcome, error) {
		return lifecycle.Rate(it, rating)
	})
	if err != nil {
		return nil, err
	}

	item, _ := order.Item(ref.ItemID)
	if err := s.catalog.AddRating(ctx, item.ProductID, rating); err != nil {
		s.logger.Warn("add product rating",
			zap.String("product_id", item.ProductID.Hex()),
			zap.Error(err))
	}
	return order, nil
}

// mutate loads the order, authorizes the caller, asks decide for the next
// item state and writes it only if the item is still at the version that
// was read.
func (s *Service) mutate(ctx context.Context, op string, ref ItemRef, who actor, decide decision) (*models.Order, error) {
	ctx, span := s.tracer.Start(ctx, op)
	defer span.End()
	span.SetAttributes(
		attribute.String("order.id", ref.OrderID.Hex()),
		attribute.String("order.item.id", ref.ItemID.Hex()),
	)

	order, err := s.orders.FindByID(ctx, ref.OrderID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	item, ok := order.Item(ref.ItemID)
	if !ok {
		return nil, ErrItemNotFound
	}
	switch who {
	case asBuyer:
		if order.BuyerID != ref.UserID {
			return nil, ErrForbidden
		}
	case asSeller:
		if item.SellerID != ref.UserID {
			return nil, ErrForbidden
		}
	}

	out, err := decide(order, item)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	updated, err := s.orders.UpdateItem(ctx, order.ID, item.Version, out.Item, out.PaymentStatus)
	switch {
	case errors.Is(err, repository.ErrConflict):
		s.conflicts.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(out.Action))))
		s.logger.Info("item changed concurrently",
			zap.String("order_id", order.ID.Hex()),
			zap.String("item_id", item.ID.Hex()),
			zap.String("action", string(out.Action)),
			zap.Int64("version", item.Version))
		return nil, err
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrItemNotFound
	case err != nil:
		return nil, fmt.Errorf("update item: %w", err)
	}

	s.refresh(ctx, updated)
	s.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("action", string(out.Action))))

	fields := []zap.Field{
		zap.String("order_id", order.ID.Hex()),
		zap.String("item_id", item.ID.Hex()),
		zap.String("action", string(out.Action)),
		zap.String("status", string(out.Item.Status)),
		zap.String("refund_status", string(out.Item.RefundStatus)),
		zap.Int64("version", out.Item.Version),
	}
	if out.PaymentStatus != "" {
		fields = append(fields, zap.String("payment_status", string(out.PaymentStatus)))
	}
	s.logger.Info("order item updated", fields...)

	s.publish(ctx, events.NewOrderEvent(eventType(out.Action), updated, ref.UserID, &out.Item))
	return updated, nil
}

func eventType(a lifecycle.Action) string {
	switch a {
	case lifecycle.ActionCancel:
		return events.TypeItemCancelled
	case lifecycle.ActionRequestRefund:
		return events.TypeRefundRequested
	case lifecycle.ActionApproveRefund, lifecycle.ActionRejectRefund:
		return events.TypeRefundResolved
	case lifecycle.ActionRate:
		return events.TypeItemRated
	default:
		return events.TypeItemStatusChanged
	}
}
