package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"shos/internal/domain"
	"shos/internal/logger"
	"shos/internal/storefront"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// session is built once per invocation from the global flags
type session struct {
	app    *storefront.App
	routes *storefront.Routes
	log    *zap.Logger
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shos"
	}
	return filepath.Join(home, ".shos")
}

func newApp() *cli.App {
	s := &session{}

	return &cli.App{
		Name:  "shop",
		Usage: "browse the shos storefront, manage the local cart and curate the catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api",
				Value:   "http://localhost:3001",
				Usage:   "catalog API base URL",
				EnvVars: []string{"SHOS_API_URL"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Value:   defaultDataDir(),
				Usage:   "directory holding the local cart",
				EnvVars: []string{"SHOS_DATA_DIR"},
			},
			&cli.StringSliceFlag{
				Name:  "sizes",
				Value: cli.NewStringSlice(storefront.DefaultSizes...),
				Usage: "sizes offered on the product page, empty to skip the size step",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Value: 10 * time.Second,
				Usage: "API request timeout",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log failures in detail",
			},
		},
		Before: func(c *cli.Context) error {
			s.log = zap.NewNop()
			if c.Bool("verbose") {
				s.log = logger.NewWithDefaults()
			}

			client := storefront.NewAPIClient(c.String("api"), nil)
			cart := storefront.LoadCart(storefront.NewFileStorage(afero.NewOsFs(), c.String("data-dir")))

			sizes := []string{}
			for _, size := range c.StringSlice("sizes") {
				if size = strings.TrimSpace(size); size != "" {
					sizes = append(sizes, size)
				}
			}

			s.app = &storefront.App{Client: client, Cart: cart, Sizes: sizes, Logger: s.log}
			s.routes = storefront.NewRoutes(s.app)
			return nil
		},
		After: func(c *cli.Context) error {
			if s.log != nil {
				s.log.Sync()
			}
			return nil
		},
		Commands: []*cli.Command{
			openCommand(s),
			productCommand(s),
			cartCommand(s),
			checkoutCommand(s),
			adminCommand(s),
		},
	}
}

func withTimeout(c *cli.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context, c.Duration("timeout"))
}

// failure turns an error into the generic message the storefront shows
func failure(s *session, action string, err error) error {
	s.log.Warn("Command failed", zap.String("action", action), zap.Error(err))

	var inputErr *domain.InputError
	switch {
	case errors.As(err, &inputErr):
		return cli.Exit(inputErr.Error(), 2)
	case errors.Is(err, domain.ErrNotFound):
		return cli.Exit("Nothing found.", 1)
	case errors.Is(err, domain.ErrConflict):
		return cli.Exit(storefront.MessageSKUTaken, 1)
	case errors.Is(err, storefront.ErrOutOfStock):
		return cli.Exit("Out of stock.", 1)
	case errors.Is(err, storefront.ErrEmptyCart):
		return cli.Exit("Your cart is empty.", 1)
	default:
		return cli.Exit(fmt.Sprintf("Couldn't %s, please try again.", action), 1)
	}
}

func openCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:      "open",
		Usage:     "open a storefront path (/, /cart, /checkout, /admin)",
		ArgsUsage: "PATH",
		Action: func(c *cli.Context) error {
			ctx, cancel := withTimeout(c)
			defer cancel()

			page, err := s.routes.Open(ctx, c.Args().First())
			if err != nil {
				return failure(s, "load the page", err)
			}
			return render(c.App.Writer, page)
		},
	}
}

func productCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "product",
		Usage: "show the product, optionally adding a selection to the cart",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "variant", Usage: "variant id to select"},
			&cli.StringFlag{Name: "image", Usage: "gallery image to show"},
			&cli.StringSliceFlag{Name: "size", Usage: "SIZE=QTY, repeatable"},
			&cli.BoolFlag{Name: "add", Usage: "continue through the flow and add to cart"},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := withTimeout(c)
			defer cancel()

			page, err := s.routes.Open(ctx, storefront.PathProduct)
			if err != nil {
				return failure(s, "load the product", err)
			}
			product := page.(*storefront.ProductPage)

			if id := c.Int64("variant"); id != 0 && !product.SelectVariant(id) {
				return cli.Exit(fmt.Sprintf("Unknown variant %d.", id), 2)
			}
			if img := c.String("image"); img != "" && !product.SelectImage(img) {
				return cli.Exit("That image does not belong to the selected color.", 2)
			}
			for _, pair := range c.StringSlice("size") {
				size, qty, err := parseSizeQuantity(pair)
				if err != nil {
					return cli.Exit(err.Error(), 2)
				}
				if err := product.SetSizeQuantity(size, qty); err != nil {
					return cli.Exit(err.Error(), 2)
				}
			}

			if c.Bool("add") {
				for product.Step() != storefront.StepCart {
					if _, err := product.Continue(); err != nil {
						return failure(s, "add to cart", err)
					}
				}
			}
			return render(c.App.Writer, product)
		},
	}
}

func parseSizeQuantity(pair string) (string, int, error) {
	size, rawQty, found := strings.Cut(pair, "=")
	if !found {
		return strings.TrimSpace(pair), 1, nil
	}
	qty, err := strconv.Atoi(strings.TrimSpace(rawQty))
	if err != nil {
		return "", 0, fmt.Errorf("invalid quantity in %q", pair)
	}
	return strings.TrimSpace(size), qty, nil
}

func cartCommand(s *session) *cli.Command {
	openCart := func(c *cli.Context) (*storefront.CartPage, error) {
		ctx, cancel := withTimeout(c)
		defer cancel()

		page, err := s.routes.Open(ctx, storefront.PathCart)
		if err != nil {
			return nil, failure(s, "load the cart", err)
		}
		return page.(*storefront.CartPage), nil
	}

	return &cli.Command{
		Name:  "cart",
		Usage: "list and edit the local cart",
		Action: func(c *cli.Context) error {
			page, err := openCart(c)
			if err != nil {
				return err
			}
			return render(c.App.Writer, page)
		},
		Subcommands: []*cli.Command{
			{
				Name:      "update",
				Usage:     "set the quantity of a cart line",
				ArgsUsage: "VARIANT SIZE QTY",
				Action: func(c *cli.Context) error {
					variantID, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
					if err != nil {
						return cli.Exit("VARIANT must be a number.", 2)
					}
					qty, err := strconv.Atoi(c.Args().Get(2))
					if err != nil {
						return cli.Exit("QTY must be a number.", 2)
					}
					page, err := openCart(c)
					if err != nil {
						return err
					}
					if err := page.UpdateQuantity(variantID, c.Args().Get(1), qty); err != nil {
						return failure(s, "update the cart", err)
					}
					return render(c.App.Writer, page)
				},
			},
			{
				Name:      "remove",
				Usage:     "remove a cart line",
				ArgsUsage: "VARIANT SIZE",
				Action: func(c *cli.Context) error {
					variantID, err := strconv.ParseInt(c.Args().Get(0), 10, 64)
					if err != nil {
						return cli.Exit("VARIANT must be a number.", 2)
					}
					page, err := openCart(c)
					if err != nil {
						return err
					}
					if err := page.Remove(variantID, c.Args().Get(1)); err != nil {
						return failure(s, "update the cart", err)
					}
					return render(c.App.Writer, page)
				},
			},
			{
				Name:  "clear",
				Usage: "empty the cart",
				Action: func(c *cli.Context) error {
					if err := s.app.Cart.Clear(); err != nil {
						return failure(s, "clear the cart", err)
					}
					fmt.Fprintln(c.App.Writer, "Cart cleared.")
					return nil
				},
			},
		},
	}
}

func checkoutCommand(s *session) *cli.Command {
	return &cli.Command{
		Name:  "checkout",
		Usage: "show the order summary, --confirm places the order and empties the cart",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "confirm", Usage: "confirm the order"},
		},
		Action: func(c *cli.Context) error {
			ctx, cancel := withTimeout(c)
			defer cancel()

			page, err := s.routes.Open(ctx, storefront.PathCheckout)
			if err != nil {
				return failure(s, "load the checkout", err)
			}
			checkout := page.(*storefront.CheckoutPage)

			if !c.Bool("confirm") {
				return render(c.App.Writer, checkout)
			}

			summary, err := checkout.Confirm()
			if err != nil {
				return failure(s, "confirm the order", err)
			}
			renderSummary(c.App.Writer, summary)
			fmt.Fprintf(c.App.Writer, "Order %s confirmed.\n", summary.Reference)
			return nil
		},
	}
}

func adminCommand(s *session) *cli.Command {
	openAdmin := func(c *cli.Context) (*storefront.AdminPage, error) {
		ctx, cancel := withTimeout(c)
		defer cancel()

		page, err := s.routes.Open(ctx, storefront.PathAdmin)
		if err != nil {
			return nil, failure(s, "load data", err)
		}
		return page.(*storefront.AdminPage), nil
	}

	return &cli.Command{
		Name:  "admin",
		Usage: "curate variants, images and product details",
		Action: func(c *cli.Context) error {
			page, err := openAdmin(c)
			if err != nil {
				return err
			}
			return render(c.App.Writer, page)
		},
		Subcommands: []*cli.Command{
			{
				Name:  "images",
				Usage: "edit a variant's image list and save it",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "variant", Required: true, Usage: "variant id"},
					&cli.StringSliceFlag{Name: "add-asset", Usage: "append an asset by file name"},
					&cli.StringSliceFlag{Name: "add-url", Usage: "append an image URL"},
					&cli.IntSliceFlag{Name: "remove", Usage: "remove the image at index"},
					&cli.IntFlag{Name: "first", Value: -1, Usage: "make the image at index the preview"},
					&cli.IntFlag{Name: "up", Value: -1, Usage: "move the image at index up"},
					&cli.IntFlag{Name: "down", Value: -1, Usage: "move the image at index down"},
				},
				Action: func(c *cli.Context) error {
					page, err := openAdmin(c)
					if err != nil {
						return err
					}
					if !page.SelectVariant(c.Int64("variant")) {
						return cli.Exit(fmt.Sprintf("Unknown variant %d.", c.Int64("variant")), 2)
					}

					for _, name := range c.StringSlice("add-asset") {
						if !page.AddAsset(name) {
							return cli.Exit(fmt.Sprintf("Asset %q is unknown or already used.", name), 2)
						}
					}
					for _, url := range c.StringSlice("add-url") {
						page.AddURL(url)
					}
					removals := c.IntSlice("remove")
					// Highest index first so earlier removals do not shift later ones
					sort.Sort(sort.Reverse(sort.IntSlice(removals)))
					for _, i := range removals {
						page.RemoveImage(i)
					}
					if i := c.Int("first"); i >= 0 {
						page.SetFirst(i)
					}
					if i := c.Int("up"); i >= 0 {
						page.MoveUp(i)
					}
					if i := c.Int("down"); i >= 0 {
						page.MoveDown(i)
					}

					if page.Dirty() {
						ctx, cancel := withTimeout(c)
						defer cancel()
						if err := page.SaveImages(ctx); err != nil {
							return failure(s, "save", err)
						}
					}
					fmt.Fprintln(c.App.Writer, page.Message())
					return render(c.App.Writer, page)
				},
			},
			{
				Name:  "create-variant",
				Usage: "add a color variant to the active product",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "color", Required: true},
					&cli.StringFlag{Name: "hex"},
					&cli.StringFlag{Name: "sku", Required: true},
					&cli.Int64Flag{Name: "price", Value: -1, Usage: "price override in minor units, omit to use the base price"},
					&cli.Int64Flag{Name: "stock", Required: true},
					&cli.StringSliceFlag{Name: "image"},
				},
				Action: func(c *cli.Context) error {
					page, err := openAdmin(c)
					if err != nil {
						return err
					}

					form := storefront.VariantForm{
						ColorName: c.String("color"),
						SKU:       c.String("sku"),
						StockQty:  c.Int64("stock"),
						Images:    c.StringSlice("image"),
					}
					if hex := c.String("hex"); hex != "" {
						form.ColorHex = &hex
					}
					if c.IsSet("price") {
						price := c.Int64("price")
						form.PriceOverride = &price
					}

					ctx, cancel := withTimeout(c)
					defer cancel()
					variant, err := page.CreateVariant(ctx, form)
					if err != nil {
						return failure(s, "save", err)
					}
					fmt.Fprintf(c.App.Writer, "%s #%d %s\n", page.Message(), variant.ID, variant.SKU)
					return nil
				},
			},
			{
				Name:  "update-product",
				Usage: "edit the active product's title, description and base price",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title"},
					&cli.StringFlag{Name: "description"},
					&cli.Int64Flag{Name: "price", Usage: "base price in minor units"},
				},
				Action: func(c *cli.Context) error {
					page, err := openAdmin(c)
					if err != nil {
						return err
					}
					current := page.Product()
					if current == nil {
						return cli.Exit("No active product.", 1)
					}

					form := storefront.ProductForm{
						Title:       current.Title,
						Description: current.Description,
						BasePrice:   current.BasePrice,
					}
					if c.IsSet("title") {
						form.Title = c.String("title")
					}
					if c.IsSet("description") {
						form.Description = c.String("description")
					}
					if c.IsSet("price") {
						form.BasePrice = c.Int64("price")
					}

					ctx, cancel := withTimeout(c)
					defer cancel()
					product, err := page.UpdateProduct(ctx, form)
					if err != nil {
						return failure(s, "save", err)
					}
					fmt.Fprintf(c.App.Writer, "%s %s\n", page.Message(), product.Title)
					return nil
				},
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
