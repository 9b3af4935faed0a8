package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"

	domain "storefront/backend/internal/domain/product"
)

// buildListFilter translates a listing query into a Mongo filter document.
// Unlisted products are excluded with $ne so records written before the
// isListed field existed still count as listed. Category matching relies on
// Mongo's array containment semantics for an exact, case-sensitive match.
func buildListFilter(query domain.ListQuery) bson.M {
	filter := bson.M{}
	if !query.IncludeUnlisted {
		filter["isListed"] = bson.M{"$ne": false}
	}
	if query.Category != "" {
		filter["category"] = query.Category
	}
	if query.MaxPrice != nil {
		filter["price"] = bson.M{"$lte": *query.MaxPrice}
	}
	return filter
}

// buildListSort maps a sort key onto a Mongo sort document. Every ordering
// tie-breaks on _id so pagination stays stable across requests.
func buildListSort(sort domain.SortKey) bson.D {
	switch sort {
	case domain.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}}
	case domain.SortNameAsc:
		return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	case domain.SortNameDesc:
		return bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: 1}}
	case domain.SortNewest:
		return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "_id", Value: 1}}
	}
}
