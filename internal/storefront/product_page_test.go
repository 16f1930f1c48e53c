package storefront

import (
	"testing"

	"shos/internal/domain"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func testBundle() *domain.ProductBundle {
	return &domain.ProductBundle{
		Product: &domain.Product{ID: 1, Title: "Nova Runner", Description: "Light running shoe", BasePrice: 49900, Active: true},
		Variants: []domain.Variant{
			{ID: 1, ProductID: 1, ColorName: "white", SKU: "NR-WHITE", StockQty: 12, Images: []string{"/w1.jpg", "/w2.jpg"}},
			{ID: 2, ProductID: 1, ColorName: "black", SKU: "NR-BLACK", StockQty: 0, Images: []string{"/b1.jpg"}},
			{ID: 3, ProductID: 1, ColorName: "red", SKU: "NR-RED", PriceOverride: int64Ptr(52900), StockQty: 5, Images: []string{}},
		},
		Settings: &domain.Settings{ShippingFlatFee: 2500, Currency: "ILS", SupportEmail: "support@shos.local"},
	}
}

func TestProductPageTotalDue(t *testing.T) {
	page := NewProductPage(testBundle(), LoadCart(NewMemoryStorage()), nil)

	require.True(t, page.SelectVariant(1))
	assert.Equal(t, int64(49900), page.UnitPrice())
	assert.Equal(t, int64(52400), page.TotalDue())

	require.True(t, page.SelectVariant(3))
	assert.Equal(t, int64(52900), page.UnitPrice())
	assert.Equal(t, int64(55400), page.TotalDue())
}

func TestProductPageWithoutSettingsChargesNoShipping(t *testing.T) {
	bundle := testBundle()
	bundle.Settings = nil
	page := NewProductPage(bundle, LoadCart(NewMemoryStorage()), nil)

	assert.Equal(t, int64(49900), page.TotalDue())
	assert.Equal(t, "", page.Currency())
}

func TestProductPageSelectVariantResetsGallery(t *testing.T) {
	page := NewProductPage(testBundle(), LoadCart(NewMemoryStorage()), nil)

	assert.Equal(t, "/w1.jpg", page.ActiveImage())
	require.True(t, page.SelectImage("/w2.jpg"))
	assert.Equal(t, "/w2.jpg", page.ActiveImage())

	assert.False(t, page.SelectImage("/b1.jpg"))

	require.True(t, page.SelectVariant(2))
	assert.Equal(t, "/b1.jpg", page.ActiveImage())

	require.True(t, page.SelectVariant(3))
	assert.Equal(t, "", page.ActiveImage())

	assert.False(t, page.SelectVariant(42))
	assert.Equal(t, int64(3), page.Selected().ID)
}

func TestProductPageZeroStockBlocksContinue(t *testing.T) {
	cart := LoadCart(NewMemoryStorage())
	page := NewProductPage(testBundle(), cart, nil)

	require.True(t, page.SelectVariant(2))
	assert.False(t, page.CanContinue())

	step, err := page.Continue()
	assert.ErrorIs(t, err, ErrOutOfStock)
	assert.Equal(t, StepColor, step)
	assert.True(t, cart.IsEmpty())
}

func TestProductPageWithoutSizesAddsOneItem(t *testing.T) {
	cart := LoadCart(NewMemoryStorage())
	page := NewProductPage(testBundle(), cart, nil)
	require.True(t, page.SelectVariant(3))

	step, err := page.Continue()
	require.NoError(t, err)
	assert.Equal(t, StepCart, step)

	items := cart.Items()
	require.Len(t, items, 1)
	assert.Equal(t, CartItem{VariantID: 3, ColorName: "red", Price: 52900, Title: "Nova Runner", Quantity: 1}, items[0])

	assert.Equal(t, StepColor, page.Back())
}

func TestProductPageSizeFlow(t *testing.T) {
	cart := LoadCart(NewMemoryStorage())
	page := NewProductPage(testBundle(), cart, []string{"41", "42", "43"})

	step, err := page.Continue()
	require.NoError(t, err)
	assert.Equal(t, StepSize, step)

	assert.False(t, page.CanContinue())
	_, err = page.Continue()
	assert.ErrorIs(t, err, ErrNoSizeSelected)

	assert.ErrorIs(t, page.SetSizeQuantity("50", 1), ErrUnknownSize)
	assert.ErrorIs(t, page.SetSizeQuantity("41", -1), ErrInvalidQuantity)
	require.NoError(t, page.SetSizeQuantity("41", 2))
	require.NoError(t, page.SetSizeQuantity("43", 1))

	assert.Equal(t, 3, page.Units())
	assert.Equal(t, int64(49900*3+2500), page.TotalDue())

	step, err = page.Continue()
	require.NoError(t, err)
	assert.Equal(t, StepCart, step)

	items := cart.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "41", items[0].Size)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "43", items[1].Size)
	assert.Equal(t, 1, items[1].Quantity)
	assert.Equal(t, "/w1.jpg", items[0].Image)

	assert.Equal(t, StepSize, page.Back())
	assert.Equal(t, StepColor, page.Back())
	assert.Equal(t, StepColor, page.Back())
}

func TestProductPageWithoutVariants(t *testing.T) {
	bundle := testBundle()
	bundle.Variants = []domain.Variant{}
	page := NewProductPage(bundle, LoadCart(NewMemoryStorage()), nil)

	assert.Nil(t, page.Selected())
	assert.False(t, page.CanContinue())
	_, err := page.Continue()
	assert.ErrorIs(t, err, ErrNoVariant)
}

// Property: total due is unit price × max(1, units) + shipping for any size selection
func TestProperty_TotalDueFormula(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total due follows the order total formula", prop.ForAll(
		func(variantID int64, q1, q2 int) bool {
			page := NewProductPage(testBundle(), LoadCart(NewMemoryStorage()), []string{"41", "42"})
			page.SelectVariant(variantID)
			if page.SetSizeQuantity("41", q1) != nil || page.SetSizeQuantity("42", q2) != nil {
				return false
			}

			units := q1 + q2
			if units < 1 {
				units = 1
			}
			return page.TotalDue() == page.UnitPrice()*int64(units)+2500
		},
		gen.Int64Range(1, 3),
		gen.IntRange(0, 20),
		gen.IntRange(0, 20),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
