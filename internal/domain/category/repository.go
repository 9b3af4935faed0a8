package category

import "context"

// Repository defines persistence behaviours for categories.
// List returns categories ordered by name ascending.
type Repository interface {
	Create(ctx context.Context, category *Category) error
	List(ctx context.Context) ([]*Category, error)
	Delete(ctx context.Context, id string) error
}
