package product

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a product could not be located.
	ErrNotFound = errors.New("product not found")
	// ErrDuplicateSlug signals slug uniqueness constraint breaches.
	ErrDuplicateSlug = errors.New("product with slug already exists")
)

// Image references a stored asset by its public URL and storage identifier.
type Image struct {
	URL      string `json:"url" bson:"url"`
	PublicID string `json:"public_id" bson:"public_id"`
}

// SizeVariant is a product sub-option carrying its own price.
type SizeVariant struct {
	Label    string   `json:"label" bson:"label"`
	Price    float64  `json:"price" bson:"price"`
	OldPrice *float64 `json:"oldPrice,omitempty" bson:"oldPrice,omitempty"`
	Image    *Image   `json:"image,omitempty" bson:"image,omitempty"`
}

// Product captures the state of a catalog product.
//
// Category holds free-text category names with no referential link to the
// categories collection; products may reference names that no longer exist.
type Product struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Slug          string        `json:"slug"`
	Description   string        `json:"description"`
	Price         float64       `json:"price"`
	OldPrice      *float64      `json:"oldPrice,omitempty"`
	Images        []Image       `json:"images"`
	Sizes         []SizeVariant `json:"sizes,omitempty"`
	Colors        []string      `json:"colors,omitempty"`
	Category      []string      `json:"category,omitempty"`
	IsBestSeller  bool          `json:"isBestSeller"`
	IsMostPopular bool          `json:"isMostPopular"`
	IsListed      bool          `json:"isListed"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
