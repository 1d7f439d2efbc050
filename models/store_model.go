package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store is a seller's public profile; its id is the seller's user id.
type Store struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description" bson:"description"`
	Logo         string             `json:"logo" bson:"logo"`
	ContactEmail string             `json:"contactEmail" bson:"contactEmail"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}
