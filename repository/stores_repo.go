package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-api/models"
)

type StoreRepository struct {
	coll *mongo.Collection
}

func NewStoreRepository(db *mongo.Database) *StoreRepository {
	return &StoreRepository{coll: db.Collection(StoresCollection)}
}

func (r *StoreRepository) Get(ctx context.Context, sellerID primitive.ObjectID) (*models.Store, error) {
	var s models.Store
	if err := r.coll.FindOne(ctx, bson.M{"_id": sellerID}).Decode(&s); err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// Upsert creates the seller's store on first save.
func (r *StoreRepository) Upsert(ctx context.Context, s *models.Store) error {
	s.UpdatedAt = time.Now().UTC()
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.ID}, s, options.Replace().SetUpsert(true))
	return err
}
