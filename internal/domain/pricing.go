package domain

import (
	"encoding/json"
	"strings"
)

// ResolvePrice returns the effective unit price of a variant in minor units.
func ResolvePrice(v Variant, basePrice int64) int64 {
	if v.PriceOverride != nil {
		return *v.PriceOverride
	}
	return basePrice
}

// OrderTotal computes the amount due for a single-product order.
// At least one unit is always charged.
func OrderTotal(unitPrice int64, units int, shippingFlatFee int64) int64 {
	if units < 1 {
		units = 1
	}
	return unitPrice*int64(units) + shippingFlatFee
}

// CleanImages trims every entry and drops the empty ones, keeping order.
func CleanImages(images []string) []string {
	cleaned := make([]string, 0, len(images))
	for _, image := range images {
		image = strings.TrimSpace(image)
		if image == "" {
			continue
		}
		cleaned = append(cleaned, image)
	}
	return cleaned
}

// DecodeLegacyImages decodes the legacy JSON text image column.
//
// Legacy rows are tolerated rather than rejected: a missing value, malformed JSON
// or a non-array document all decode to an empty list, and non-string entries are dropped.
func DecodeLegacyImages(raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return []string{}
	}

	var values []interface{}
	if err := json.Unmarshal([]byte(*raw), &values); err != nil {
		return []string{}
	}

	images := make([]string, 0, len(values))
	for _, value := range values {
		if s, ok := value.(string); ok {
			images = append(images, s)
		}
	}
	return images
}
