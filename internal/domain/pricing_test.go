package domain

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

// Property: override wins when present, otherwise the base price applies
func TestProperty_ResolvePriceUsesOverrideWhenPresent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("price override supersedes base price", prop.ForAll(
		func(basePrice int64, override int64, hasOverride bool) bool {
			v := Variant{ID: 1}
			if hasOverride {
				v.PriceOverride = &override
			}

			got := ResolvePrice(v, basePrice)
			if hasOverride {
				return got == override
			}
			return got == basePrice
		},
		gen.Int64Range(0, 10_000_000),
		gen.Int64Range(0, 10_000_000),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property: order total never charges fewer than one unit
func TestProperty_OrderTotalChargesAtLeastOneUnit(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("units below one are charged as one", prop.ForAll(
		func(unitPrice int64, units int, shipping int64) bool {
			got := OrderTotal(unitPrice, units, shipping)
			if units < 1 {
				return got == unitPrice+shipping
			}
			return got == unitPrice*int64(units)+shipping
		},
		gen.Int64Range(0, 1_000_000),
		gen.IntRange(-5, 20),
		gen.Int64Range(0, 10_000),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestOrderTotalScenario(t *testing.T) {
	basePrice := int64(49900)
	shipping := int64(2500)
	variantA := Variant{ID: 1, SKU: "NR-WHITE"}
	variantB := Variant{ID: 2, SKU: "NR-RED", PriceOverride: int64Ptr(52900)}

	assert.Equal(t, int64(52400), OrderTotal(ResolvePrice(variantA, basePrice), 1, shipping))
	assert.Equal(t, int64(55400), OrderTotal(ResolvePrice(variantB, basePrice), 1, shipping))
	assert.Equal(t, int64(52400), OrderTotal(ResolvePrice(variantA, basePrice), 0, shipping))
}

func TestCleanImages(t *testing.T) {
	got := CleanImages([]string{"  /a.jpg ", "", "   ", "/b.jpg"})
	assert.Equal(t, []string{"/a.jpg", "/b.jpg"}, got)

	assert.Empty(t, CleanImages(nil))
	assert.NotNil(t, CleanImages(nil))
}

func TestDecodeLegacyImages(t *testing.T) {
	tests := []struct {
		name string
		raw  *string
		want []string
	}{
		{"nil", nil, []string{}},
		{"empty", strPtr(""), []string{}},
		{"malformed", strPtr("[\"/a.jpg\""), []string{}},
		{"object", strPtr(`{"a":1}`), []string{}},
		{"array", strPtr(`["/a.jpg","/b.jpg"]`), []string{"/a.jpg", "/b.jpg"}},
		{"mixed entries", strPtr(`["/a.jpg", 3, null, "/b.jpg"]`), []string{"/a.jpg", "/b.jpg"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecodeLegacyImages(tt.raw))
		})
	}
}

func TestVariantHelpers(t *testing.T) {
	v := Variant{ID: 3, ColorName: "red", SKU: "NR-RED", StockQty: 0, Images: []string{"/r1.jpg", "/r2.jpg"}}

	assert.False(t, v.InStock())
	assert.Equal(t, "/r1.jpg", v.FirstImage())
	assert.Equal(t, VariantSummary{ID: 3, ColorName: "red", SKU: "NR-RED", Images: v.Images}, v.Summary())
	assert.Equal(t, "", Variant{}.FirstImage())
}
