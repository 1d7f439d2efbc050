// Package repository is the MongoDB persistence layer.
package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict means a conditional write lost against a concurrent change.
	ErrConflict = errors.New("document was modified concurrently")
)

const (
	OrdersCollection    = "orders"
	ProductsCollection  = "products"
	UsersCollection     = "users"
	AddressesCollection = "addresses"
	StoresCollection    = "stores"
)

// Page is a 1-based page request, normalised the way the list endpoints
// always parsed page/limit query parameters.
type Page struct {
	Page  int64
	Limit int64
}

func NewPage(page, limit int64) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) skip() int64 {
	return (p.Page - 1) * p.Limit
}

func (p Page) findOptions() *options.FindOptions {
	return options.Find().SetSkip(p.skip()).SetLimit(p.Limit)
}

// TotalPages rounds up.
func (p Page) TotalPages(total int64) int64 {
	return (total + p.Limit - 1) / p.Limit
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
