package product

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domain "storefront/backend/internal/domain/product"
)

// AssetRemover deletes stored assets by their storage identifier.
type AssetRemover interface {
	Destroy(ctx context.Context, publicID string) error
}

// Service encapsulates product use cases.
type Service struct {
	repo    domain.Repository
	assets  AssetRemover
	nowFunc func() time.Time
}

// NewService constructs a product service.
func NewService(repo domain.Repository, assets AssetRemover) *Service {
	return &Service{
		repo:    repo,
		assets:  assets,
		nowFunc: time.Now,
	}
}

// ImageInput references an already uploaded asset.
type ImageInput struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// SizeInput describes one size variant in a submission.
type SizeInput struct {
	Label    string      `json:"label"`
	Price    Number      `json:"price"`
	OldPrice Number      `json:"oldPrice"`
	Image    *ImageInput `json:"image"`
}

// Input contains the full product payload submitted by the admin panel.
// Create and update both take the complete record.
type Input struct {
	Name          string       `json:"name"`
	Slug          string       `json:"slug"`
	Description   string       `json:"description"`
	Price         Number       `json:"price"`
	OldPrice      Number       `json:"oldPrice"`
	Images        []ImageInput `json:"images"`
	Sizes         []SizeInput  `json:"sizes"`
	Colors        []string     `json:"colors"`
	Category      []string     `json:"category"`
	IsBestSeller  bool         `json:"isBestSeller"`
	IsMostPopular bool         `json:"isMostPopular"`
	IsListed      *bool        `json:"isListed"`
}

func (in *Input) validate() (*domain.Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Name == "" {
		return nil, errors.New("name is required")
	}
	if in.Slug == "" {
		return nil, errors.New("slug is required")
	}
	if !in.Price.Set {
		return nil, errors.New("price is required")
	}
	if len(in.Images) == 0 {
		return nil, errors.New("at least one image is required")
	}

	p := &domain.Product{
		Name:          in.Name,
		Slug:          in.Slug,
		Description:   strings.TrimSpace(in.Description),
		Price:         in.Price.Value,
		OldPrice:      in.OldPrice.Ptr(),
		Colors:        in.Colors,
		Category:      in.Category,
		IsBestSeller:  in.IsBestSeller,
		IsMostPopular: in.IsMostPopular,
		IsListed:      in.IsListed == nil || *in.IsListed,
	}

	for _, img := range in.Images {
		if strings.TrimSpace(img.URL) == "" {
			return nil, errors.New("image url is required")
		}
		p.Images = append(p.Images, domain.Image{URL: img.URL, PublicID: img.PublicID})
	}

	for i, size := range in.Sizes {
		label := strings.TrimSpace(size.Label)
		if label == "" {
			return nil, fmt.Errorf("size %d: label is required", i+1)
		}
		if !size.Price.Set {
			return nil, fmt.Errorf("size %q: price is required", label)
		}
		variant := domain.SizeVariant{
			Label:    label,
			Price:    size.Price.Value,
			OldPrice: size.OldPrice.Ptr(),
		}
		if size.Image != nil && size.Image.URL != "" {
			variant.Image = &domain.Image{URL: size.Image.URL, PublicID: size.Image.PublicID}
		}
		p.Sizes = append(p.Sizes, variant)
	}

	return p, nil
}

// Create stores a new product after validation and returns the persisted record.
func (s *Service) Create(ctx context.Context, input Input) (*domain.Product, error) {
	p, err := input.validate()
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.GetBySlug(ctx, p.Slug); err == nil {
		return nil, domain.ErrDuplicateSlug
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := s.nowFunc().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, p.ID)
}

// Update replaces the full product record identified by id.
// The creation timestamp of the existing record is preserved.
func (s *Service) Update(ctx context.Context, id string, input Input) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("id is required")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p, err := input.validate()
	if err != nil {
		return nil, err
	}

	if p.Slug != existing.Slug {
		if _, err := s.repo.GetBySlug(ctx, p.Slug); err == nil {
			return nil, domain.ErrDuplicateSlug
		} else if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}

	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.nowFunc().UTC()

	if err := s.repo.Replace(ctx, p); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Get fetches a product by its slug.
func (s *Service) Get(ctx context.Context, slug string) (*domain.Product, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, errors.New("slug is required")
	}
	return s.repo.GetBySlug(ctx, slug)
}

// List serves the public shop listing: only listed products are eligible,
// filtered and sorted per the input, with a page/pages/total envelope.
func (s *Service) List(ctx context.Context, in ListInput) (ListResult, error) {
	if in.Page < 1 {
		return ListResult{}, ErrInvalidPage
	}
	if in.Limit < 1 {
		return ListResult{}, ErrInvalidLimit
	}

	query := domain.ListQuery{
		Category: in.Category,
		MaxPrice: in.MaxPrice,
		Sort:     in.Sort,
		Page:     in.Page,
		Limit:    in.Limit,
	}

	products, total, err := s.repo.List(ctx, query)
	if err != nil {
		return ListResult{}, err
	}
	if products == nil {
		products = []*domain.Product{}
	}

	pages := int((total + int64(in.Limit) - 1) / int64(in.Limit))
	return ListResult{
		Products: products,
		Page:     in.Page,
		Pages:    pages,
		Total:    total,
	}, nil
}

// ListAll returns every product regardless of listed state, for the admin panel.
func (s *Service) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListAll(ctx)
}

// Delete removes a product and best-effort deletes its stored image assets.
// Asset store failures are logged and never block the record deletion.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return errors.New("id is required")
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	for _, img := range p.Images {
		s.destroyAsset(ctx, img.PublicID)
	}
	for _, size := range p.Sizes {
		if size.Image != nil {
			s.destroyAsset(ctx, size.Image.PublicID)
		}
	}

	return s.repo.Delete(ctx, id)
}

func (s *Service) destroyAsset(ctx context.Context, publicID string) {
	if publicID == "" || s.assets == nil {
		return
	}
	if err := s.assets.Destroy(ctx, publicID); err != nil {
		slog.Warn("failed to delete product image asset", "public_id", publicID, "err", err)
	}
}
