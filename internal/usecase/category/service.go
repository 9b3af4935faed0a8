package category

import (
	"context"
	"errors"
	"strings"
	"time"

	domain "storefront/backend/internal/domain/category"
)

// ErrNameRequired rejects blank category names.
var ErrNameRequired = errors.New("category name is required")

// Service encapsulates category use cases.
type Service struct {
	repo    domain.Repository
	nowFunc func() time.Time
}

// NewService constructs a category service.
func NewService(repo domain.Repository) *Service {
	return &Service{
		repo:    repo,
		nowFunc: time.Now,
	}
}

// Create stores a new category. Names are trimmed; blank names are rejected
// and duplicates surface as domain.ErrAlreadyExists.
func (s *Service) Create(ctx context.Context, name string) (*domain.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	now := s.nowFunc().UTC()
	c := &domain.Category{
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns all categories sorted by name.
func (s *Service) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}

// Delete removes a category by id. Products referencing the category name
// keep the reference; membership is free text, not a link.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("id is required")
	}
	return s.repo.Delete(ctx, id)
}
