package banner

import (
	"errors"
	"time"

	"storefront/backend/internal/domain/product"
)

// ErrNotFound indicates a banner could not be located.
var ErrNotFound = errors.New("banner not found")

// DefaultLink is where a banner points when no link target was provided.
const DefaultLink = "/shop"

// Banner is a promotional slide shown on the storefront. Order controls the
// slider position, lowest first.
type Banner struct {
	ID        string        `json:"id"`
	Image     product.Image `json:"image"`
	Link      string        `json:"link"`
	Order     int           `json:"order"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}
