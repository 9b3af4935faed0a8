package banner

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domain "storefront/backend/internal/domain/banner"
	"storefront/backend/internal/domain/product"
	productusecase "storefront/backend/internal/usecase/product"
)

// AssetRemover deletes stored assets by their storage identifier.
type AssetRemover interface {
	Destroy(ctx context.Context, publicID string) error
}

// Service encapsulates banner use cases.
type Service struct {
	repo    domain.Repository
	assets  AssetRemover
	nowFunc func() time.Time
}

// NewService constructs a banner service.
func NewService(repo domain.Repository, assets AssetRemover) *Service {
	return &Service{
		repo:    repo,
		assets:  assets,
		nowFunc: time.Now,
	}
}

// CreateInput contains the payload required for banner creation.
type CreateInput struct {
	Image struct {
		URL      string `json:"url"`
		PublicID string `json:"public_id"`
	} `json:"image"`
	Link  string               `json:"link"`
	Order productusecase.Number `json:"order"`
}

// Create stores a new banner. The link target falls back to the shop page
// when omitted; order defaults to 0.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Banner, error) {
	if strings.TrimSpace(input.Image.URL) == "" {
		return nil, errors.New("banner image is required")
	}

	link := strings.TrimSpace(input.Link)
	if link == "" {
		link = domain.DefaultLink
	}

	order := 0
	if input.Order.Set {
		order = int(input.Order.Value)
	}

	now := s.nowFunc().UTC()
	b := &domain.Banner{
		Image:     product.Image{URL: input.Image.URL, PublicID: input.Image.PublicID},
		Link:      link,
		Order:     order,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// List returns all banners sorted by display order.
func (s *Service) List(ctx context.Context) ([]*domain.Banner, error) {
	return s.repo.List(ctx)
}

// Delete removes a banner. Its stored asset is destroyed first, best-effort:
// an asset store failure is logged and the record is deleted regardless.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("id is required")
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if b.Image.PublicID != "" && s.assets != nil {
		if err := s.assets.Destroy(ctx, b.Image.PublicID); err != nil {
			slog.Warn("failed to delete banner asset", "public_id", b.Image.PublicID, "err", err)
		}
	}

	return s.repo.Delete(ctx, id)
}
