package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Address struct {
	Id      primitive.ObjectID `json:"id" bson:"_id"`
	UserId  primitive.ObjectID `json:"userId" bson:"userId"`
	Label   string             `json:"label" bson:"label"`
	Lane    string             `json:"lane" bson:"lane"`
	City    string             `json:"city" bson:"city"`
	State   string             `json:"state" bson:"state"`
	PinCode string             `json:"pinCode" bson:"pinCode"`
}

func (a Address) Shipping() ShippingAddress {
	return ShippingAddress{
		Label:   a.Label,
		Lane:    a.Lane,
		City:    a.City,
		State:   a.State,
		PinCode: a.PinCode,
	}
}
