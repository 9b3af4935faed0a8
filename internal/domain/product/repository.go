package product

import "context"

// SortKey identifies an ordering of listing results.
type SortKey string

const (
	// SortDefault leaves ordering to the store's natural order.
	SortDefault SortKey = ""
	// SortPriceAsc orders by base price, lowest first.
	SortPriceAsc SortKey = "priceAsc"
	// SortPriceDesc orders by base price, highest first.
	SortPriceDesc SortKey = "priceDesc"
	// SortNameAsc orders by name ascending.
	SortNameAsc SortKey = "nameAsc"
	// SortNameDesc orders by name descending.
	SortNameDesc SortKey = "nameDesc"
	// SortNewest orders by creation time, newest first.
	SortNewest SortKey = "newest"
)

// ListQuery narrows and pages a product listing. A nil MaxPrice leaves the
// price unbounded. Page is 1-based. All orderings tie-break on the record
// identifier so pagination stays stable across requests.
type ListQuery struct {
	Category        string
	MaxPrice        *float64
	Sort            SortKey
	Page            int
	Limit           int
	IncludeUnlisted bool
}

// Offset returns the number of records to skip for the query's page.
func (q ListQuery) Offset() int {
	if q.Page <= 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Repository defines persistence behaviours for products.
type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, query ListQuery) ([]*Product, int64, error)
	ListAll(ctx context.Context) ([]*Product, error)
	Replace(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
}
