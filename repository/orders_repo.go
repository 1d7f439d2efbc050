package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-api/models"
)

type OrderFilter struct {
	Page
	Status models.ItemStatus
}

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) Insert(ctx context.Context, order *models.Order) error {
	_, err := r.coll.InsertOne(ctx, order)
	return err
}

func (r *OrderRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	var order models.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, notFound(err)
	}
	return &order, nil
}

func (r *OrderRepository) ListByBuyer(ctx context.Context, buyerID primitive.ObjectID, f OrderFilter) ([]models.Order, int64, error) {
	return r.list(ctx, bson.M{"buyerId": buyerID}, f)
}

// ListBySeller returns orders holding at least one of the seller's items.
// Items of other sellers are still present; callers trim them.
func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID, f OrderFilter) ([]models.Order, int64, error) {
	filter := bson.M{"sellerIds": sellerID}
	if f.Status != "" {
		filter["items"] = bson.M{"$elemMatch": bson.M{"sellerId": sellerID, "status": f.Status}}
		return r.list(ctx, filter, OrderFilter{Page: f.Page})
	}
	return r.list(ctx, filter, f)
}

func (r *OrderRepository) list(ctx context.Context, filter bson.M, f OrderFilter) ([]models.Order, int64, error) {
	if f.Status != "" {
		filter["items.status"] = f.Status
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	opts := f.findOptions().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find orders: %w", err)
	}
	defer cursor.Close(ctx)

	orders := make([]models.Order, 0)
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("decode orders: %w", err)
	}
	return orders, total, nil
}

// UpdateItem replaces one item if its stored version still equals
// expectedVersion. A non-empty payment also sets the order's payment status
// in the same write. ErrConflict means someone else changed the item first.
func (r *OrderRepository) UpdateItem(ctx context.Context, orderID primitive.ObjectID, expectedVersion int64, item models.OrderItem, payment models.PaymentStatus) (*models.Order, error) {
	filter := bson.M{
		"_id": orderID,
		"items": bson.M{"$elemMatch": bson.M{
			"_id":     item.ID,
			"version": expectedVersion,
		}},
	}

	set := bson.M{
		"items.$":   item,
		"updatedAt": time.Now().UTC(),
	}
	if payment != "" {
		set["paymentStatus"] = payment
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("update order item: %w", err)
	}

	n, err := r.coll.CountDocuments(ctx, bson.M{"_id": orderID, "items._id": item.ID})
	if err != nil {
		return nil, fmt.Errorf("check order item: %w", err)
	}
	if n == 0 {
		return nil, ErrNotFound
	}
	return nil, ErrConflict
}

// MarkPaid settles an online payment for the buyer's pending order.
func (r *OrderRepository) MarkPaid(ctx context.Context, orderID, buyerID primitive.ObjectID, razorpayOrderID, paymentID string) (*models.Order, error) {
	filter := bson.M{
		"_id":             orderID,
		"buyerId":         buyerID,
		"razorpayOrderId": razorpayOrderID,
	}
	update := bson.M{"$set": bson.M{
		"paymentStatus": models.PaymentPaid,
		"paymentId":     paymentID,
		"updatedAt":     time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Order
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated); err != nil {
		return nil, notFound(err)
	}
	return &updated, nil
}
