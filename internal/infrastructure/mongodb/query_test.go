package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	domain "storefront/backend/internal/domain/product"
)

func TestBuildListFilter(t *testing.T) {
	maxPrice := 500.0

	tests := []struct {
		name  string
		query domain.ListQuery
		want  bson.M
	}{
		{
			name:  "public defaults",
			query: domain.ListQuery{},
			want:  bson.M{"isListed": bson.M{"$ne": false}},
		},
		{
			name:  "admin sees unlisted",
			query: domain.ListQuery{IncludeUnlisted: true},
			want:  bson.M{},
		},
		{
			name:  "category containment",
			query: domain.ListQuery{Category: "Weight Management"},
			want: bson.M{
				"isListed": bson.M{"$ne": false},
				"category": "Weight Management",
			},
		},
		{
			name:  "price ceiling",
			query: domain.ListQuery{MaxPrice: &maxPrice},
			want: bson.M{
				"isListed": bson.M{"$ne": false},
				"price":    bson.M{"$lte": 500.0},
			},
		},
		{
			name: "all constraints",
			query: domain.ListQuery{
				Category: "Supplements",
				MaxPrice: &maxPrice,
			},
			want: bson.M{
				"isListed": bson.M{"$ne": false},
				"category": "Supplements",
				"price":    bson.M{"$lte": 500.0},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildListFilter(tt.query))
		})
	}
}

func TestBuildListSort(t *testing.T) {
	tests := []struct {
		name string
		sort domain.SortKey
		want bson.D
	}{
		{
			name: "price ascending",
			sort: domain.SortPriceAsc,
			want: bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}},
		},
		{
			name: "price descending",
			sort: domain.SortPriceDesc,
			want: bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: 1}},
		},
		{
			name: "name ascending",
			sort: domain.SortNameAsc,
			want: bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}},
		},
		{
			name: "name descending",
			sort: domain.SortNameDesc,
			want: bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: 1}},
		},
		{
			name: "newest first",
			sort: domain.SortNewest,
			want: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
		},
		{
			name: "default is insertion order",
			sort: domain.SortDefault,
			want: bson.D{{Key: "_id", Value: 1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildListSort(tt.sort))
		})
	}
}
