package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ShippingAddress is copied from the buyer's address book at checkout.
type ShippingAddress struct {
	Label   string `json:"label" bson:"label"`
	Lane    string `json:"lane" bson:"lane"`
	City    string `json:"city" bson:"city"`
	State   string `json:"state" bson:"state"`
	PinCode string `json:"pinCode" bson:"pinCode"`
}

// OrderItem is one product/variety/option line, tracked independently for
// fulfilment and refunds.
type OrderItem struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	ProductID primitive.ObjectID `json:"productId" bson:"productId"`
	VarietyID primitive.ObjectID `json:"varietyId" bson:"varietyId"`
	OptionID  primitive.ObjectID `json:"optionId" bson:"optionId"`
	SellerID  primitive.ObjectID `json:"sellerId" bson:"sellerId"`

	Name      string  `json:"name" bson:"name"`
	Image     string  `json:"image" bson:"image"`
	Size      string  `json:"size" bson:"size,omitempty"`
	Price     float64 `json:"price" bson:"price"`
	Quantity  int     `json:"quantity" bson:"quantity"`
	StoreName string  `json:"storeName" bson:"storeName"`

	Status                ItemStatus   `json:"status" bson:"status"`
	CancelReason          string       `json:"cancelReason,omitempty" bson:"cancelReason,omitempty"`
	Rating                int          `json:"rating" bson:"rating"`
	RefundStatus          RefundStatus `json:"refundStatus" bson:"refundStatus"`
	RefundReason          string       `json:"refundReason,omitempty" bson:"refundReason,omitempty"`
	RefundRejectionReason string       `json:"refundRejectionReason,omitempty" bson:"refundRejectionReason,omitempty"`

	Version   int64     `json:"version" bson:"version"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Order is created once at checkout; afterwards only item sub-fields and
// payment fields change.
type Order struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id"`
	BuyerID         primitive.ObjectID   `json:"buyerId" bson:"buyerId"`
	ShippingAddress ShippingAddress      `json:"shippingAddress" bson:"shippingAddress"`
	PaymentMethod   PaymentMethod        `json:"paymentMethod" bson:"paymentMethod"`
	PaymentStatus   PaymentStatus        `json:"paymentStatus" bson:"paymentStatus"`
	TotalAmount     float64              `json:"totalAmount" bson:"totalAmount"`
	RazorpayOrderID string               `json:"razorpayOrderId,omitempty" bson:"razorpayOrderId,omitempty"`
	PaymentID       string               `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	SellerIDs       []primitive.ObjectID `json:"-" bson:"sellerIds"`
	Items           []OrderItem          `json:"items" bson:"items"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Item returns the item with the given id.
func (o *Order) Item(id primitive.ObjectID) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == id {
			return it, true
		}
	}
	return OrderItem{}, false
}

// ItemsForSeller returns a copy of the order holding only the seller's items.
func (o Order) ItemsForSeller(sellerID primitive.ObjectID) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.SellerID == sellerID {
			items = append(items, it)
		}
	}
	o.Items = items
	return o
}

// ItemsInStatus returns a copy of the order holding only items in status.
func (o Order) ItemsInStatus(status ItemStatus) Order {
	items := make([]OrderItem, 0, len(o.Items))
	for _, it := range o.Items {
		if it.Status == status {
			items = append(items, it)
		}
	}
	o.Items = items
	return o
}

// Revision grows with every accepted write to the order: each item write
// bumps that item's version and settling payment adds one.
func (o Order) Revision() int64 {
	var rev int64
	for _, it := range o.Items {
		rev += it.Version
	}
	if o.PaymentStatus == PaymentPaid {
		rev++
	}
	return rev
}

// CollectSellerIDs returns the distinct sellers of items, in first-seen order.
func CollectSellerIDs(items []OrderItem) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(items))
	ids := make([]primitive.ObjectID, 0, len(items))
	for _, it := range items {
		if !seen[it.SellerID] {
			seen[it.SellerID] = true
			ids = append(ids, it.SellerID)
		}
	}
	return ids
}
