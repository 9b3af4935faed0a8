package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Number is a JSON field accepting either a number or a numeric string.
// Admin forms submit numeric inputs as text, so "250" and 250 are equal.
// A blank string or null means the field is absent, not zero.
type Number struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		n.Set = false
		return nil
	}

	if trimmed[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			n.Set = false
			return nil
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid numeric value %q", raw)
		}
		n.Value = value
		n.Set = true
		return nil
	}

	var value float64
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	n.Value = value
	n.Set = true
	return nil
}

// Ptr returns the value as a pointer, or nil when the field is absent.
func (n Number) Ptr() *float64 {
	if !n.Set {
		return nil
	}
	value := n.Value
	return &value
}
