package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"marketplace-api/models"
)

// AddressRepository scopes every query to the owning user.
type AddressRepository struct {
	coll *mongo.Collection
}

func NewAddressRepository(db *mongo.Database) *AddressRepository {
	return &AddressRepository{coll: db.Collection(AddressesCollection)}
}

func (r *AddressRepository) Insert(ctx context.Context, a *models.Address) error {
	a.Id = primitive.NewObjectID()
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

func (r *AddressRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Address, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	addresses := make([]models.Address, 0)
	if err := cursor.All(ctx, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *AddressRepository) FindOwned(ctx context.Context, id, userID primitive.ObjectID) (*models.Address, error) {
	var a models.Address
	if err := r.coll.FindOne(ctx, bson.M{"_id": id, "userId": userID}).Decode(&a); err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *AddressRepository) UpdateOwned(ctx context.Context, a *models.Address) error {
	update := bson.M{"$set": bson.M{
		"label":   a.Label,
		"lane":    a.Lane,
		"city":    a.City,
		"state":   a.State,
		"pinCode": a.PinCode,
	}}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": a.Id, "userId": a.UserId}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AddressRepository) DeleteOwned(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
