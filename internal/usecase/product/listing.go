package product

import (
	"errors"
	"net/url"
	"strconv"

	domain "storefront/backend/internal/domain/product"
)

// DefaultPageSize is the shop listing page size when no limit is given.
const DefaultPageSize = 6

var (
	// ErrInvalidPage rejects non-positive or unparsable page parameters.
	ErrInvalidPage = errors.New("page must be a positive integer")
	// ErrInvalidLimit rejects non-positive or unparsable limit parameters.
	ErrInvalidLimit = errors.New("limit must be a positive integer")
	// ErrInvalidMaxPrice rejects unparsable maxPrice parameters.
	ErrInvalidMaxPrice = errors.New("maxPrice must be a number")
)

// ListInput carries the shop listing parameters after parsing.
type ListInput struct {
	Category string
	MaxPrice *float64
	Sort     domain.SortKey
	Page     int
	Limit    int
}

// ListResult is a page of products plus its pagination envelope.
type ListResult struct {
	Products []*domain.Product
	Page     int
	Pages    int
	Total    int64
}

// ParseListInput translates shop query parameters into a ListInput.
// Unrecognized sort values fall back to the store's default order.
func ParseListInput(values url.Values) (ListInput, error) {
	in := ListInput{
		Category: values.Get("category"),
		Sort:     sortKey(values.Get("sort")),
		Page:     1,
		Limit:    DefaultPageSize,
	}

	if raw := values.Get("maxPrice"); raw != "" {
		bound, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ListInput{}, ErrInvalidMaxPrice
		}
		in.MaxPrice = &bound
	}
	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return ListInput{}, ErrInvalidPage
		}
		in.Page = page
	}
	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return ListInput{}, ErrInvalidLimit
		}
		in.Limit = limit
	}
	return in, nil
}

func sortKey(value string) domain.SortKey {
	switch value {
	case "priceLowHigh":
		return domain.SortPriceAsc
	case "priceHighLow":
		return domain.SortPriceDesc
	case "AlphabeticalAZ":
		return domain.SortNameAsc
	case "AlphabeticalZA":
		return domain.SortNameDesc
	case "BestSeller":
		return domain.SortNewest
	default:
		return domain.SortDefault
	}
}
