package repository

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"marketplace-api/models"
)

type ProductRepository struct {
	coll *mongo.Collection
}

func NewProductRepository(db *mongo.Database) *ProductRepository {
	return &ProductRepository{coll: db.Collection(ProductsCollection)}
}

// Insert assigns ids to the product and any variety or option missing one.
func (r *ProductRepository) Insert(ctx context.Context, p *models.Product) error {
	p.ID = primitive.NewObjectID()
	p.CreatedAt = time.Now().UTC()
	assignVarietyIDs(p.Varieties)

	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *ProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	var p models.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *ProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Product, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	byID := make(map[primitive.ObjectID]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return byID, nil
}

func (r *ProductRepository) List(ctx context.Context, page Page) ([]models.Product, int64, error) {
	return r.find(ctx, bson.M{}, page)
}

func (r *ProductRepository) ListBySeller(ctx context.Context, sellerID primitive.ObjectID, page Page) ([]models.Product, int64, error) {
	return r.find(ctx, bson.M{"sellerId": sellerID}, page)
}

// Search matches product names case-insensitively.
func (r *ProductRepository) Search(ctx context.Context, name string, page Page) ([]models.Product, int64, error) {
	filter := bson.M{}
	if name != "" {
		filter["name"] = bson.M{"$regex": regexp.QuoteMeta(name), "$options": "i"}
	}
	return r.find(ctx, filter, page)
}

// Suggest returns up to limit product names starting with prefix.
func (r *ProductRepository) Suggest(ctx context.Context, prefix string, limit int64) ([]string, error) {
	filter := bson.M{"name": bson.M{"$regex": "^" + regexp.QuoteMeta(prefix), "$options": "i"}}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(bson.M{"name": 1}).
		SetSort(bson.D{{Key: "ratingCount", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("suggest products: %w", err)
	}
	defer cursor.Close(ctx)

	names := make([]string, 0, limit)
	for cursor.Next(ctx) {
		var doc struct {
			Name string `bson:"name"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		names = append(names, doc.Name)
	}
	return names, cursor.Err()
}

func (r *ProductRepository) find(ctx context.Context, filter bson.M, page Page) ([]models.Product, int64, error) {
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	opts := page.findOptions().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("find products: %w", err)
	}
	defer cursor.Close(ctx)

	products := make([]models.Product, 0)
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("decode products: %w", err)
	}
	return products, total, nil
}

// UpdateOwned overwrites the editable fields of a seller's product.
func (r *ProductRepository) UpdateOwned(ctx context.Context, p *models.Product) error {
	assignVarietyIDs(p.Varieties)
	update := bson.M{"$set": bson.M{
		"name":        p.Name,
		"brand":       p.Brand,
		"description": p.Description,
		"category":    p.Category,
		"varieties":   p.Varieties,
	}}

	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": p.ID, "sellerId": p.SellerID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) DeleteOwned(ctx context.Context, id, sellerID primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "sellerId": sellerID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ProductRepository) AddRating(ctx context.Context, id primitive.ObjectID, rating int) error {
	_, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{
		"ratingTotal": rating,
		"ratingCount": 1,
	}})
	return err
}

// RenameStore keeps the denormalised store name on a seller's products in step.
func (r *ProductRepository) RenameStore(ctx context.Context, sellerID primitive.ObjectID, name string) error {
	_, err := r.coll.UpdateMany(ctx, bson.M{"sellerId": sellerID}, bson.M{"$set": bson.M{"storeName": name}})
	return err
}

func assignVarietyIDs(varieties []models.Variety) {
	for i := range varieties {
		if varieties[i].ID.IsZero() {
			varieties[i].ID = primitive.NewObjectID()
		}
		for j := range varieties[i].Options {
			if varieties[i].Options[j].ID.IsZero() {
				varieties[i].Options[j].ID = primitive.NewObjectID()
			}
		}
	}
}
