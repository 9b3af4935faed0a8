package product

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberUnmarshal(t *testing.T) {
	type payload struct {
		Price Number `json:"price"`
	}

	tests := []struct {
		name    string
		json    string
		want    Number
		wantErr bool
	}{
		{name: "number", json: `{"price": 499}`, want: Number{Value: 499, Set: true}},
		{name: "decimal", json: `{"price": 12.5}`, want: Number{Value: 12.5, Set: true}},
		{name: "numeric string", json: `{"price": "250"}`, want: Number{Value: 250, Set: true}},
		{name: "padded string", json: `{"price": " 99 "}`, want: Number{Value: 99, Set: true}},
		{name: "blank string is absent", json: `{"price": ""}`, want: Number{}},
		{name: "null is absent", json: `{"price": null}`, want: Number{}},
		{name: "field omitted", json: `{}`, want: Number{}},
		{name: "garbage string", json: `{"price": "cheap"}`, wantErr: true},
		{name: "wrong type", json: `{"price": true}`, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var p payload
			err := json.Unmarshal([]byte(tc.json), &p)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, p.Price)
		})
	}
}

func TestNumberPtr(t *testing.T) {
	assert.Nil(t, Number{}.Ptr())

	ptr := Number{Value: 42, Set: true}.Ptr()
	require.NotNil(t, ptr)
	assert.Equal(t, 42.0, *ptr)
}
