package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Option is the purchasable SKU within a variety, e.g. a size.
type Option struct {
	ID    primitive.ObjectID `json:"id" bson:"_id"`
	Size  string             `json:"size" bson:"size"`
	Price float64            `json:"price" bson:"price"`
	Stock int                `json:"stock" bson:"stock"`
}

// Variety is a variation dimension of a product, e.g. a colour.
type Variety struct {
	ID      primitive.ObjectID `json:"id" bson:"_id"`
	Name    string             `json:"name" bson:"name"`
	Images  []string           `json:"images" bson:"images"`
	Options []Option           `json:"options" bson:"options"`
}

type Product struct {
	ID          primitive.ObjectID `json:"productId,omitempty" bson:"_id,omitempty"`
	SellerID    primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	StoreName   string             `json:"storeName" bson:"storeName"`
	Name        string             `json:"name" bson:"name"`
	Brand       string             `json:"brand" bson:"brand"`
	Description string             `json:"description" bson:"description"`
	Category    string             `json:"category" bson:"category"`
	Varieties   []Variety          `json:"varieties" bson:"varieties"`
	RatingTotal int                `json:"-" bson:"ratingTotal"`
	RatingCount int                `json:"ratingCount" bson:"ratingCount"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
}

// AverageRating is 0 when the product has no ratings yet.
func (p Product) AverageRating() float64 {
	if p.RatingCount == 0 {
		return 0
	}
	return float64(p.RatingTotal) / float64(p.RatingCount)
}

// Lookup resolves a variety and option pair on the product.
func (p Product) Lookup(varietyID, optionID primitive.ObjectID) (Variety, Option, bool) {
	for _, v := range p.Varieties {
		if v.ID != varietyID {
			continue
		}
		for _, o := range v.Options {
			if o.ID == optionID {
				return v, o, true
			}
		}
	}
	return Variety{}, Option{}, false
}
