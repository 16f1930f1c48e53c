package storefront

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"shos/internal/domain"
	"shos/internal/middleware"

	"github.com/go-chi/chi/v5"
)

// fakeAPI serves the catalog contract from memory
type fakeAPI struct {
	mu       sync.Mutex
	bundle   *domain.ProductBundle
	assets   []domain.ImageAsset
	failWith int
	requests int
}

func newFakeAPI(t *testing.T) (*fakeAPI, *APIClient) {
	t.Helper()

	api := &fakeAPI{
		bundle: testBundle(),
		assets: []domain.ImageAsset{
			{Name: "nova-black.jpg", URL: "/api/product-assets/nova-black.jpg"},
			{Name: "nova-white.png", URL: "/api/product-assets/nova-white.png"},
		},
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			api.mu.Lock()
			api.requests++
			fail := api.failWith
			api.mu.Unlock()
			if fail != 0 {
				middleware.RespondWithError(w, fail, "forced failure")
				return
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/product", api.getProduct)
	r.Get("/api/variants", api.listVariants)
	r.Get("/api/product-images", api.listImages)
	r.Post("/api/variants", api.createVariant)
	r.Put("/api/variants/{id}/images", api.replaceImages)
	r.Put("/api/product/{id}", api.updateProduct)

	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)

	return api, NewAPIClient(ts.URL, ts.Client())
}

func (a *fakeAPI) fail(status int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.failWith = status
}

func (a *fakeAPI) getProduct(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.bundle.Product == nil {
		middleware.RespondWithError(w, http.StatusNotFound, "not found")
		return
	}
	middleware.RespondWithJSON(w, http.StatusOK, a.bundle)
}

func (a *fakeAPI) listVariants(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	defer a.mu.Unlock()
	summaries := []domain.VariantSummary{}
	for _, v := range a.bundle.Variants {
		summaries = append(summaries, v.Summary())
	}
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"variants": summaries})
}

func (a *fakeAPI) listImages(w http.ResponseWriter, r *http.Request) {
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"images": a.assets})
}

func (a *fakeAPI) createVariant(w http.ResponseWriter, r *http.Request) {
	var form VariantForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for _, v := range a.bundle.Variants {
		if v.SKU == form.SKU {
			middleware.RespondWithError(w, http.StatusConflict, "sku already exists")
			return
		}
	}
	v := domain.Variant{
		ID:            int64(len(a.bundle.Variants) + 1),
		ProductID:     a.bundle.Product.ID,
		ColorName:     form.ColorName,
		ColorHex:      form.ColorHex,
		SKU:           form.SKU,
		PriceOverride: form.PriceOverride,
		StockQty:      int(form.StockQty),
		Images:        domain.CleanImages(form.Images),
	}
	a.bundle.Variants = append(a.bundle.Variants, v)
	middleware.RespondWithJSON(w, http.StatusCreated, map[string]interface{}{"variant": v})
}

func (a *fakeAPI) replaceImages(w http.ResponseWriter, r *http.Request) {
	id, _ := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	var body struct {
		Images []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Images == nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "images must be an array")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	for i := range a.bundle.Variants {
		if a.bundle.Variants[i].ID == id {
			a.bundle.Variants[i].Images = domain.CleanImages(body.Images)
			v := a.bundle.Variants[i]
			middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{
				"variant": domain.VariantImages{ID: v.ID, ColorName: v.ColorName, Images: v.Images},
			})
			return
		}
	}
	middleware.RespondWithError(w, http.StatusNotFound, "variant not found")
}

func (a *fakeAPI) updateProduct(w http.ResponseWriter, r *http.Request) {
	var form ProductForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid body")
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	p := a.bundle.Product
	p.Title, p.Description, p.BasePrice = form.Title, form.Description, form.BasePrice
	middleware.RespondWithJSON(w, http.StatusOK, map[string]interface{}{"product": p})
}

func (a *fakeAPI) requestCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.requests
}

func (a *fakeAPI) variant(i int) domain.Variant {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bundle.Variants[i]
}

func (a *fakeAPI) productTitle() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.bundle.Product.Title
}
