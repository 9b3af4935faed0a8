package category

import (
	"errors"
	"time"
)

var (
	// ErrNotFound indicates a category could not be located.
	ErrNotFound = errors.New("category not found")
	// ErrAlreadyExists signals name uniqueness constraint breaches.
	ErrAlreadyExists = errors.New("category already exists")
)

// Category names a shop-by-concern bucket. Products reference categories by
// name only; removing a category leaves referencing products untouched.
type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
