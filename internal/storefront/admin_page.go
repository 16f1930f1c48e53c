package storefront

import (
	"context"
	"errors"
	"strings"

	"shos/internal/domain"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// Messages shown to the admin. Failures never surface technical detail.
const (
	MessageLoadFailed     = "Couldn't load data, please try again."
	MessageSaveFailed     = "Couldn't save, please try again."
	MessageSKUTaken       = "This SKU already exists."
	MessageImagesSaved    = "Images saved."
	MessageVariantCreated = "Variant created."
	MessageProductSaved   = "Product saved."
)

// AdminPage curates variant images and edits catalog data
type AdminPage struct {
	client  CatalogClient
	logger  *zap.Logger
	product *domain.Product

	variants   []domain.VariantSummary
	assets     []domain.ImageAsset
	selectedID int64
	draft      []string
	message    string
}

// NewAdminPage creates an empty admin page. Call Load to fetch its data.
func NewAdminPage(client CatalogClient, logger *zap.Logger) *AdminPage {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminPage{client: client, logger: logger}
}

func (p *AdminPage) Name() string { return "admin" }

func (p *AdminPage) Message() string { return p.message }

func (p *AdminPage) Product() *domain.Product { return p.product }

func (p *AdminPage) Variants() []domain.VariantSummary {
	return append([]domain.VariantSummary(nil), p.variants...)
}

func (p *AdminPage) Assets() []domain.ImageAsset {
	return append([]domain.ImageAsset(nil), p.assets...)
}

func (p *AdminPage) SelectedID() int64 { return p.selectedID }

// Draft is the working copy of the selected variant's image list
func (p *AdminPage) Draft() []string {
	return append([]string{}, p.draft...)
}

// Load fetches variants, image assets and the active product concurrently.
// On failure the previous state is kept.
func (p *AdminPage) Load(ctx context.Context) error {
	var (
		variants []domain.VariantSummary
		assets   []domain.ImageAsset
		product  *domain.Product
	)

	loaders := pool.New().WithContext(ctx).WithCancelOnError()
	loaders.Go(func(ctx context.Context) error {
		var err error
		variants, err = p.client.ListVariants(ctx)
		return err
	})
	loaders.Go(func(ctx context.Context) error {
		var err error
		assets, err = p.client.ListImages(ctx)
		return err
	})
	loaders.Go(func(ctx context.Context) error {
		bundle, err := p.client.GetProduct(ctx)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		product = bundle.Product
		return nil
	})

	if err := loaders.Wait(); err != nil {
		p.logger.Warn("Admin data load failed", zap.Error(err))
		p.message = MessageLoadFailed
		return err
	}

	p.variants = variants
	p.assets = assets
	p.product = product
	p.message = ""

	if p.selectedID != 0 && !p.SelectVariant(p.selectedID) {
		p.selectedID = 0
		p.draft = nil
	}
	return nil
}

// SelectVariant starts editing the image list of a variant
func (p *AdminPage) SelectVariant(id int64) bool {
	for _, v := range p.variants {
		if v.ID == id {
			p.selectedID = id
			p.draft = append([]string{}, v.Images...)
			return true
		}
	}
	return false
}

func (p *AdminPage) selectedSummary() *domain.VariantSummary {
	for i := range p.variants {
		if p.variants[i].ID == p.selectedID {
			return &p.variants[i]
		}
	}
	return nil
}

// Dirty reports whether the draft differs from the saved image list
func (p *AdminPage) Dirty() bool {
	v := p.selectedSummary()
	if v == nil {
		return false
	}
	if len(v.Images) != len(p.draft) {
		return true
	}
	for i := range p.draft {
		if p.draft[i] != v.Images[i] {
			return true
		}
	}
	return false
}

// AddAsset appends a picked asset by file name
func (p *AdminPage) AddAsset(name string) bool {
	for _, a := range p.assets {
		if a.Name == name {
			return p.AddURL(a.URL)
		}
	}
	return false
}

// AddURL appends an image URL that is not already in the draft
func (p *AdminPage) AddURL(url string) bool {
	url = strings.TrimSpace(url)
	if p.selectedID == 0 || url == "" {
		return false
	}
	for _, existing := range p.draft {
		if existing == url {
			return false
		}
	}
	p.draft = append(p.draft, url)
	return true
}

func (p *AdminPage) validIndex(i int) bool {
	return i >= 0 && i < len(p.draft)
}

// RemoveImage drops the image at index i
func (p *AdminPage) RemoveImage(i int) bool {
	if !p.validIndex(i) {
		return false
	}
	p.draft = append(p.draft[:i], p.draft[i+1:]...)
	return true
}

func (p *AdminPage) MoveUp(i int) bool {
	if !p.validIndex(i) || i == 0 {
		return false
	}
	p.draft[i-1], p.draft[i] = p.draft[i], p.draft[i-1]
	return true
}

func (p *AdminPage) MoveDown(i int) bool {
	if !p.validIndex(i) || i == len(p.draft)-1 {
		return false
	}
	p.draft[i+1], p.draft[i] = p.draft[i], p.draft[i+1]
	return true
}

// SetFirst makes image i the variant's preview image
func (p *AdminPage) SetFirst(i int) bool {
	if !p.validIndex(i) || i == 0 {
		return false
	}
	img := p.draft[i]
	copy(p.draft[1:i+1], p.draft[0:i])
	p.draft[0] = img
	return true
}

// SaveImages persists the draft. A failed save keeps the draft and the saved list unchanged.
func (p *AdminPage) SaveImages(ctx context.Context) error {
	v := p.selectedSummary()
	if v == nil {
		return domain.NewInputError("variant", "is required")
	}

	updated, err := p.client.ReplaceImages(ctx, v.ID, p.Draft())
	if err != nil {
		p.logger.Warn("Saving variant images failed", zap.Int64("variant_id", v.ID), zap.Error(err))
		p.message = MessageSaveFailed
		return err
	}

	v.Images = append([]string{}, updated.Images...)
	p.draft = append([]string{}, updated.Images...)
	p.message = MessageImagesSaved
	return nil
}

// CreateVariant checks the form locally, then creates the variant
func (p *AdminPage) CreateVariant(ctx context.Context, form VariantForm) (*domain.Variant, error) {
	form.ColorName = strings.TrimSpace(form.ColorName)
	form.SKU = strings.TrimSpace(form.SKU)

	if err := checkVariantForm(form); err != nil {
		p.message = err.Error()
		return nil, err
	}

	variant, err := p.client.CreateVariant(ctx, form)
	if err != nil {
		p.logger.Warn("Creating variant failed", zap.String("sku", form.SKU), zap.Error(err))
		if errors.Is(err, domain.ErrConflict) {
			p.message = MessageSKUTaken
		} else {
			p.message = MessageSaveFailed
		}
		return nil, err
	}

	p.variants = append(p.variants, variant.Summary())
	p.message = MessageVariantCreated
	return variant, nil
}

// UpdateProduct checks the form locally, then saves the product details
func (p *AdminPage) UpdateProduct(ctx context.Context, form ProductForm) (*domain.Product, error) {
	if p.product == nil {
		p.message = MessageLoadFailed
		return nil, domain.ErrNotFound
	}

	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	if err := checkProductForm(form); err != nil {
		p.message = err.Error()
		return nil, err
	}

	product, err := p.client.UpdateProduct(ctx, p.product.ID, form)
	if err != nil {
		p.logger.Warn("Updating product failed", zap.Int64("product_id", p.product.ID), zap.Error(err))
		p.message = MessageSaveFailed
		return nil, err
	}

	p.product = product
	p.message = MessageProductSaved
	return product, nil
}

func checkVariantForm(form VariantForm) error {
	inputErr := &domain.InputError{}
	if form.ColorName == "" {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "color_name", Message: "is required"})
	}
	if form.SKU == "" {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "sku", Message: "is required"})
	}
	if form.StockQty < 0 {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "stock_qty", Message: "must be a non-negative integer"})
	}
	if form.PriceOverride != nil && *form.PriceOverride < 0 {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "price_override", Message: "must be a non-negative integer"})
	}
	if len(inputErr.Fields) > 0 {
		return inputErr
	}
	return nil
}

func checkProductForm(form ProductForm) error {
	inputErr := &domain.InputError{}
	if form.Title == "" {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "title", Message: "is required"})
	}
	if form.Description == "" {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "description", Message: "is required"})
	}
	if form.BasePrice < 0 {
		inputErr.Fields = append(inputErr.Fields, domain.FieldError{Field: "base_price", Message: "must be a non-negative integer"})
	}
	if len(inputErr.Fields) > 0 {
		return inputErr
	}
	return nil
}
