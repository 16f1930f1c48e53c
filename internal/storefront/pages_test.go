package storefront

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartPage(t *testing.T) {
	bundle := testBundle()
	cart := LoadCart(NewMemoryStorage())
	page := NewCartPage(cart, bundle.Settings)

	assert.True(t, page.IsEmpty())
	assert.Zero(t, page.Shipping())
	assert.Zero(t, page.Total())

	require.NoError(t, cart.Add(whiteItem("42")))
	require.NoError(t, page.UpdateQuantity(1, "42", 2))

	lines := page.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, int64(99800), lines[0].LineTotal)
	assert.Equal(t, "₪499.00", lines[0].Price)
	assert.Equal(t, "₪998.00", lines[0].Total)
	assert.Equal(t, int64(2500), page.Shipping())
	assert.Equal(t, int64(99800+2500), page.Total())
	assert.Equal(t, 2, page.Count())

	require.NoError(t, page.Remove(1, "42"))
	assert.True(t, page.IsEmpty())
}

func TestCheckoutPage(t *testing.T) {
	bundle := testBundle()
	cart := LoadCart(NewMemoryStorage())
	require.NoError(t, cart.Add(whiteItem("42")))

	page := NewCheckoutPage(cart, bundle.Settings)
	_, err := uuid.Parse(page.Reference())
	require.NoError(t, err)

	summary := page.Summary()
	assert.Equal(t, page.Reference(), summary.Reference)
	assert.Equal(t, int64(49900), summary.Subtotal)
	assert.Equal(t, int64(2500), summary.Shipping)
	assert.Equal(t, int64(52400), summary.Total)
	assert.Equal(t, "ILS", summary.Currency)
	assert.Equal(t, "support@shos.local", summary.SupportEmail)

	confirmed, err := page.Confirm()
	require.NoError(t, err)
	assert.Equal(t, summary, confirmed)
	assert.True(t, cart.IsEmpty())

	_, err = page.Confirm()
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutReferencesAreUnique(t *testing.T) {
	cart := LoadCart(NewMemoryStorage())
	a := NewCheckoutPage(cart, nil)
	b := NewCheckoutPage(cart, nil)
	assert.NotEqual(t, a.Reference(), b.Reference())
}
