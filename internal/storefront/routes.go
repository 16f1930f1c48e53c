package storefront

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// Page is a page controller
type Page interface {
	Name() string
}

// PageFactory builds the controller for a route
type PageFactory func(ctx context.Context) (Page, error)

const (
	PathProduct  = "/"
	PathCart     = "/cart"
	PathCheckout = "/checkout"
	PathAdmin    = "/admin"
)

// App holds what the page controllers share
type App struct {
	Client CatalogClient
	Cart   *Cart
	Sizes  []string
	Logger *zap.Logger
}

// Routes maps paths to page controllers. Unknown paths resolve to the product page.
type Routes struct {
	table map[string]PageFactory
}

// NewRoutes builds the route table for app
func NewRoutes(app *App) *Routes {
	logger := app.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Routes{table: map[string]PageFactory{
		PathProduct: func(ctx context.Context) (Page, error) {
			bundle, err := app.Client.GetProduct(ctx)
			if err != nil {
				return nil, err
			}
			return NewProductPage(bundle, app.Cart, app.Sizes), nil
		},
		PathCart: func(ctx context.Context) (Page, error) {
			bundle, err := app.Client.GetProduct(ctx)
			if err != nil {
				return nil, err
			}
			return NewCartPage(app.Cart, bundle.Settings), nil
		},
		PathCheckout: func(ctx context.Context) (Page, error) {
			bundle, err := app.Client.GetProduct(ctx)
			if err != nil {
				return nil, err
			}
			return NewCheckoutPage(app.Cart, bundle.Settings), nil
		},
		PathAdmin: func(ctx context.Context) (Page, error) {
			page := NewAdminPage(app.Client, logger.Named("admin"))
			if err := page.Load(ctx); err != nil {
				return nil, err
			}
			return page, nil
		},
	}}
}

// Resolve returns the canonical route for path
func (r *Routes) Resolve(path string) string {
	if u, err := url.Parse(path); err == nil {
		path = u.Path
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	if path == "" {
		path = PathProduct
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	if _, ok := r.table[path]; ok {
		return path
	}
	return PathProduct
}

// Open builds the page controller for path
func (r *Routes) Open(ctx context.Context, path string) (Page, error) {
	return r.table[r.Resolve(path)](ctx)
}

// Paths lists the known routes
func (r *Routes) Paths() []string {
	paths := make([]string, 0, len(r.table))
	for p := range r.table {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
