package upload

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrNoFiles means the request carried nothing to upload.
	ErrNoFiles = errors.New("no file uploaded")
	// ErrUpload wraps asset store and image transform failures.
	ErrUpload = errors.New("upload failed")
	// ErrAssetNotFound means the storage identifier does not resolve to an asset.
	ErrAssetNotFound = errors.New("asset not found")
)

// Asset identifies a stored image.
type Asset struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// Store abstracts the remote asset host.
type Store interface {
	Upload(ctx context.Context, data []byte) (Asset, error)
	Destroy(ctx context.Context, publicID string) error
}

// Service uploads admin-submitted images to the asset store.
type Service struct {
	store Store
}

// NewService constructs an upload service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// UploadAll stores each file in turn and returns the resulting assets.
// Files are processed sequentially; a failure aborts the batch.
func (s *Service) UploadAll(ctx context.Context, files [][]byte) ([]Asset, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}

	assets := make([]Asset, 0, len(files))
	for i, data := range files {
		asset, err := s.store.Upload(ctx, data)
		if err != nil {
			return nil, fmt.Errorf("file %d: %w", i+1, err)
		}
		assets = append(assets, asset)
	}
	return assets, nil
}
