package orders

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"marketplace-api/models"
	"marketplace-api/repository"
)

// load reads through the cache. Writes never use it; they need the stored
// item version.
func (s *Service) load(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	if order, ok, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn("read cached order", zap.String("order_id", id.Hex()), zap.Error(err))
	} else if ok {
		return order, nil
	}

	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}

	if err := s.cache.Set(ctx, order); err != nil {
		s.logger.Warn("cache order", zap.String("order_id", id.Hex()), zap.Error(err))
	}
	return order, nil
}

func (s *Service) GetForBuyer(ctx context.Context, buyerID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.BuyerID != buyerID {
		return nil, ErrForbidden
	}
	return order, nil
}

// GetForSeller returns the order trimmed to the seller's own items.
func (s *Service) GetForSeller(ctx context.Context, sellerID, orderID primitive.ObjectID) (*models.Order, error) {
	order, err := s.load(ctx, orderID)
	if err != nil {
		return nil, err
	}
	view := order.ItemsForSeller(sellerID)
	if len(view.Items) == 0 {
		return nil, ErrForbidden
	}
	return &view, nil
}

func (s *Service) ListForBuyer(ctx context.Context, buyerID primitive.ObjectID, f repository.OrderFilter) ([]models.Order, int64, error) {
	return s.orders.ListByBuyer(ctx, buyerID, f)
}

func (s *Service) ListForSeller(ctx context.Context, sellerID primitive.ObjectID, f repository.OrderFilter) ([]models.Order, int64, error) {
	list, total, err := s.orders.ListBySeller(ctx, sellerID, f)
	if err != nil {
		return nil, 0, err
	}
	for i := range list {
		list[i] = list[i].ItemsForSeller(sellerID)
		if f.Status != "" {
			list[i] = list[i].ItemsInStatus(f.Status)
		}
	}
	return list, total, nil
}
