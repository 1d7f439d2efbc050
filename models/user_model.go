package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	UserTypeBuyer  = "buyer"
	UserTypeSeller = "seller"
)

type User struct {
	Id       primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name     string               `bson:"name" json:"name"`
	Email    string               `bson:"email" json:"email"`
	ImageUrl string               `bson:"profileImage" json:"profileImage,omitempty"`
	Password string               `bson:"password" json:"-"`
	Type     string               `bson:"type" json:"type"`
	Cart     []CartItem           `bson:"cart" json:"cart"`
	Wishlist []primitive.ObjectID `bson:"wishlist" json:"wishlist"`
}

// CartItem points at a product option; display fields are resolved on read.
type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	VarietyID primitive.ObjectID `bson:"varietyId" json:"varietyId"`
	OptionID  primitive.ObjectID `bson:"optionId" json:"optionId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
}
