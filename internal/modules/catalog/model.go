package catalog

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus is the catalog admission state of a product.
type ProductStatus string

const (
	StatusActive      ProductStatus = "active"
	StatusDeactivated ProductStatus = "deactivated"
)

// Product is a catalog entry. Status gates order admission; Available is a
// separate coarse flag the order-cancellation path flips off. Cancelling an
// order does not deactivate the catalog entry, it only marks it unavailable.
type Product struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Price       float64       `json:"price"`
	Status      ProductStatus `json:"status"`
	Available   bool          `json:"available"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CreateProductRequest holds the data for adding stock to the catalog.
// Names are unique: creating an existing name restocks it instead.
type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity,omitempty"` // defaults to 1
}

// CreateProductResult reports whether the request created a product or
// restocked an existing one.
type CreateProductResult struct {
	Message string   `json:"message"`
	Product *Product `json:"product"`
}

// UpdateProductRequest is a typed patch for product updates. Nil fields are
// left untouched.
type UpdateProductRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
}
