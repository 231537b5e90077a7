package domain

import (
	"errors"
	"time"
)

// ErrNotImplemented is returned by domain services whose business logic has
// not been written yet.
var ErrNotImplemented = errors.New("not implemented")

var ErrProductNotFound = errors.New("product not found")

// Money is an amount in the currency's minor unit (cents).
type Money struct {
	Amount   int64  `json:"amount" bson:"amount"`
	Currency string `json:"currency" bson:"currency"`
}

// Product is a catalog entry.
type Product struct {
	ID          string    `json:"id" bson:"_id,omitempty"`
	SKU         string    `json:"sku" bson:"sku"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       Money     `json:"price" bson:"price"`
	Stock       int       `json:"stock" bson:"stock"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}

// Page describes a slice of a larger result set. Page is 1-based.
type Page struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}
