package banner

import "context"

// Repository defines persistence behaviours for banners.
// List returns banners ordered by display order ascending.
type Repository interface {
	Create(ctx context.Context, banner *Banner) error
	GetByID(ctx context.Context, id string) (*Banner, error)
	List(ctx context.Context) ([]*Banner, error)
	Delete(ctx context.Context, id string) error
}
