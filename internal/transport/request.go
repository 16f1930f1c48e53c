package transport

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"shos/internal/domain"
)

// CreateVariantRequest represents the variant creation payload.
// Numeric fields stay untyped so numbers and numeric strings are both accepted.
type CreateVariantRequest struct {
	ColorName     interface{} `json:"color_name"`
	ColorHex      interface{} `json:"color_hex"`
	SKU           interface{} `json:"sku"`
	PriceOverride interface{} `json:"price_override"`
	StockQty      interface{} `json:"stock_qty"`
	Images        interface{} `json:"images"`
}

// ReplaceImagesRequest represents the image list replacement payload
type ReplaceImagesRequest struct {
	Images interface{} `json:"images"`
}

// UpdateProductRequest represents the product details payload
type UpdateProductRequest struct {
	Title       interface{} `json:"title"`
	Description interface{} `json:"description"`
	BasePrice   interface{} `json:"base_price"`
}

// parseInteger coerces a decoded JSON value into an integer.
// Absent, null and blank string values report present == false.
func parseInteger(field string, raw interface{}) (int64, bool, error) {
	switch v := raw.(type) {
	case nil:
		return 0, false, nil
	case json.Number:
		return numberToInt(field, string(v))
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		return numberToInt(field, s)
	default:
		return 0, false, domain.NewInputError(field, "must be an integer")
	}
}

func numberToInt(field, s string) (int64, bool, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, true, nil
	}

	// 3.0 and 1e3 are integers written in float form
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) || math.Abs(f) >= 1<<63 {
		return 0, false, domain.NewInputError(field, "must be an integer")
	}
	return int64(f), true, nil
}

// parseString accepts strings and numbers and treats null as empty
func parseString(field string, raw interface{}) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	default:
		return "", domain.NewInputError(field, "must be a string")
	}
}

// parseImageList requires an array and keeps only its string entries.
// A missing list is returned as nil.
func parseImageList(field string, raw interface{}) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil, domain.NewInputError(field, "must be an array")
	}

	images := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			images = append(images, s)
		}
	}
	return images, nil
}

// looseImageList keeps the string entries of an array and ignores any other shape
func looseImageList(raw interface{}) []string {
	images, err := parseImageList("images", raw)
	if err != nil || images == nil {
		return []string{}
	}
	return images
}

// parseID parses a path id that must be a positive integer
func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.NewInputError("id", "must be a positive integer")
	}
	return id, nil
}
