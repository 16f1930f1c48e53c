package storefront

import (
	"context"
	"net/http"
	"testing"

	"shos/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func loadedAdmin(t *testing.T) (*fakeAPI, *AdminPage) {
	t.Helper()
	api, client := newFakeAPI(t)
	page := NewAdminPage(client, zap.NewNop())
	require.NoError(t, page.Load(context.Background()))
	return api, page
}

func TestAdminLoad(t *testing.T) {
	_, page := loadedAdmin(t)

	assert.Len(t, page.Variants(), 3)
	assert.Len(t, page.Assets(), 2)
	assert.Equal(t, "Nova Runner", page.Product().Title)
	assert.Empty(t, page.Message())
}

func TestAdminLoadFailureKeepsState(t *testing.T) {
	api, page := loadedAdmin(t)
	require.True(t, page.SelectVariant(1))

	api.fail(http.StatusInternalServerError)
	err := page.Load(context.Background())

	assert.Error(t, err)
	assert.Equal(t, MessageLoadFailed, page.Message())
	assert.Len(t, page.Variants(), 3)
	assert.Equal(t, []string{"/w1.jpg", "/w2.jpg"}, page.Draft())
}

func TestAdminLoadWithoutActiveProduct(t *testing.T) {
	api, client := newFakeAPI(t)
	api.bundle.Product = nil

	page := NewAdminPage(client, nil)
	require.NoError(t, page.Load(context.Background()))
	assert.Nil(t, page.Product())

	_, err := page.UpdateProduct(context.Background(), ProductForm{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAdminImageEditing(t *testing.T) {
	_, page := loadedAdmin(t)

	assert.False(t, page.AddURL("/x.jpg"), "nothing selected yet")
	require.True(t, page.SelectVariant(1))
	assert.False(t, page.Dirty())

	assert.True(t, page.AddAsset("nova-black.jpg"))
	assert.False(t, page.AddAsset("missing.jpg"))
	assert.True(t, page.AddURL("  /extra.jpg "))
	assert.False(t, page.AddURL("/extra.jpg"))
	assert.False(t, page.AddURL("   "))
	assert.Equal(t, []string{"/w1.jpg", "/w2.jpg", "/api/product-assets/nova-black.jpg", "/extra.jpg"}, page.Draft())
	assert.True(t, page.Dirty())

	assert.True(t, page.SetFirst(2))
	assert.Equal(t, []string{"/api/product-assets/nova-black.jpg", "/w1.jpg", "/w2.jpg", "/extra.jpg"}, page.Draft())

	assert.True(t, page.MoveDown(0))
	assert.False(t, page.MoveDown(3))
	assert.True(t, page.MoveUp(3))
	assert.False(t, page.MoveUp(0))
	assert.Equal(t, []string{"/w1.jpg", "/api/product-assets/nova-black.jpg", "/extra.jpg", "/w2.jpg"}, page.Draft())

	assert.True(t, page.RemoveImage(2))
	assert.False(t, page.RemoveImage(7))
	assert.False(t, page.SetFirst(0))
	assert.Equal(t, []string{"/w1.jpg", "/api/product-assets/nova-black.jpg", "/w2.jpg"}, page.Draft())
}

func TestAdminSaveImages(t *testing.T) {
	api, page := loadedAdmin(t)
	require.True(t, page.SelectVariant(3))
	require.True(t, page.AddAsset("nova-white.png"))

	require.NoError(t, page.SaveImages(context.Background()))

	assert.Equal(t, MessageImagesSaved, page.Message())
	assert.False(t, page.Dirty())
	assert.Equal(t, []string{"/api/product-assets/nova-white.png"}, api.variant(2).Images)
	assert.Equal(t, []string{"/api/product-assets/nova-white.png"}, page.Variants()[2].Images)
}

func TestAdminFailedSaveKeepsState(t *testing.T) {
	api, page := loadedAdmin(t)
	require.True(t, page.SelectVariant(1))
	require.True(t, page.RemoveImage(0))

	api.fail(http.StatusInternalServerError)
	err := page.SaveImages(context.Background())

	assert.ErrorIs(t, err, domain.ErrStoreFailure)
	assert.Equal(t, MessageSaveFailed, page.Message())
	assert.Equal(t, []string{"/w2.jpg"}, page.Draft())
	assert.Equal(t, []string{"/w1.jpg", "/w2.jpg"}, page.Variants()[0].Images)
	assert.True(t, page.Dirty())
	assert.Equal(t, []string{"/w1.jpg", "/w2.jpg"}, api.variant(0).Images)
}

func TestAdminSaveWithoutSelection(t *testing.T) {
	_, page := loadedAdmin(t)
	assert.ErrorIs(t, page.SaveImages(context.Background()), domain.ErrInvalidInput)
}

func TestAdminCreateVariant(t *testing.T) {
	api, page := loadedAdmin(t)
	ctx := context.Background()

	_, err := page.CreateVariant(ctx, VariantForm{ColorName: " ", SKU: "NR-X", StockQty: -1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	before := api.requestCount()

	variant, err := page.CreateVariant(ctx, VariantForm{ColorName: " green ", SKU: " NR-GREEN ", StockQty: 2})
	require.NoError(t, err)
	assert.Equal(t, "NR-GREEN", variant.SKU)
	assert.Equal(t, MessageVariantCreated, page.Message())
	assert.Len(t, page.Variants(), 4)
	assert.Equal(t, before+1, api.requestCount())

	_, err = page.CreateVariant(ctx, VariantForm{ColorName: "again", SKU: "NR-GREEN", StockQty: 2})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, MessageSKUTaken, page.Message())
	assert.Len(t, page.Variants(), 4)
}

func TestAdminUpdateProduct(t *testing.T) {
	api, page := loadedAdmin(t)
	ctx := context.Background()

	_, err := page.UpdateProduct(ctx, ProductForm{Title: "", Description: "d", BasePrice: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	product, err := page.UpdateProduct(ctx, ProductForm{Title: "Nova Runner 2", Description: "Lighter", BasePrice: 45900})
	require.NoError(t, err)
	assert.Equal(t, int64(45900), product.BasePrice)
	assert.Equal(t, MessageProductSaved, page.Message())
	assert.Equal(t, "Nova Runner 2", api.productTitle())
}
