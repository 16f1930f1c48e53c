package storefront

import (
	"errors"
	"fmt"

	"shos/internal/domain"
)

// Step is a stage of the product page flow
type Step int

const (
	StepColor Step = iota
	StepSize
	StepCart
)

func (s Step) String() string {
	switch s {
	case StepColor:
		return "color-selection"
	case StepSize:
		return "size-selection"
	case StepCart:
		return "cart"
	default:
		return fmt.Sprintf("step(%d)", int(s))
	}
}

var (
	ErrNoVariant       = errors.New("no variant selected")
	ErrOutOfStock      = errors.New("selected variant is out of stock")
	ErrNoSizeSelected  = errors.New("no size selected")
	ErrUnknownSize     = errors.New("unknown size")
	ErrInvalidQuantity = errors.New("quantity must not be negative")
)

// DefaultSizes are the EU shoe sizes offered when no other list is configured
var DefaultSizes = []string{"36", "37", "38", "39", "40", "41", "42", "43", "44", "45", "46"}

// ProductPage drives color-selection → size-selection → cart for the active product
type ProductPage struct {
	bundle      *domain.ProductBundle
	cart        *Cart
	sizes       []string
	step        Step
	selected    int
	activeImage string
	quantities  map[string]int
}

// NewProductPage starts at color selection with the first variant selected.
// An empty sizes list skips the size step.
func NewProductPage(bundle *domain.ProductBundle, cart *Cart, sizes []string) *ProductPage {
	p := &ProductPage{
		bundle:     bundle,
		cart:       cart,
		sizes:      append([]string(nil), sizes...),
		step:       StepColor,
		selected:   -1,
		quantities: make(map[string]int),
	}
	if len(bundle.Variants) > 0 {
		p.selectIndex(0)
	}
	return p
}

func (p *ProductPage) Name() string { return "product" }

func (p *ProductPage) Step() Step { return p.step }

func (p *ProductPage) Product() *domain.Product { return p.bundle.Product }

func (p *ProductPage) Variants() []domain.Variant { return p.bundle.Variants }

func (p *ProductPage) Sizes() []string { return append([]string(nil), p.sizes...) }

func (p *ProductPage) ActiveImage() string { return p.activeImage }

// Currency is the settings currency, empty when settings are missing
func (p *ProductPage) Currency() string {
	if p.bundle.Settings == nil {
		return ""
	}
	return p.bundle.Settings.Currency
}

// Selected returns the selected variant or nil
func (p *ProductPage) Selected() *domain.Variant {
	if p.selected < 0 {
		return nil
	}
	v := p.bundle.Variants[p.selected]
	return &v
}

func (p *ProductPage) selectIndex(i int) {
	p.selected = i
	p.activeImage = p.bundle.Variants[i].FirstImage()
}

// SelectVariant selects a variant by id and resets the gallery to its first image.
// Unknown ids are ignored.
func (p *ProductPage) SelectVariant(id int64) bool {
	for i, v := range p.bundle.Variants {
		if v.ID == id {
			p.selectIndex(i)
			return true
		}
	}
	return false
}

// SelectImage shows one of the selected variant's images
func (p *ProductPage) SelectImage(url string) bool {
	v := p.Selected()
	if v == nil {
		return false
	}
	for _, img := range v.Images {
		if img == url {
			p.activeImage = url
			return true
		}
	}
	return false
}

// SetSizeQuantity sets how many units of a size are wanted. Zero clears the size.
func (p *ProductPage) SetSizeQuantity(size string, quantity int) error {
	if !p.hasSize(size) {
		return fmt.Errorf("%w: %s", ErrUnknownSize, size)
	}
	if quantity < 0 {
		return ErrInvalidQuantity
	}
	if quantity == 0 {
		delete(p.quantities, size)
		return nil
	}
	p.quantities[size] = quantity
	return nil
}

// SizeQuantity returns the wanted units for a size
func (p *ProductPage) SizeQuantity(size string) int {
	return p.quantities[size]
}

func (p *ProductPage) hasSize(size string) bool {
	for _, s := range p.sizes {
		if s == size {
			return true
		}
	}
	return false
}

// Units is the total of units across selected sizes
func (p *ProductPage) Units() int {
	units := 0
	for _, q := range p.quantities {
		units += q
	}
	return units
}

// UnitPrice is the resolved price of the selected variant
func (p *ProductPage) UnitPrice() int64 {
	v := p.Selected()
	if v == nil {
		return p.bundle.Product.BasePrice
	}
	return domain.ResolvePrice(*v, p.bundle.Product.BasePrice)
}

// TotalDue is the order total for the current selection including shipping
func (p *ProductPage) TotalDue() int64 {
	var shipping int64
	if p.bundle.Settings != nil {
		shipping = p.bundle.Settings.ShippingFlatFee
	}
	return domain.OrderTotal(p.UnitPrice(), p.Units(), shipping)
}

// CanContinue reports whether the continue action is enabled
func (p *ProductPage) CanContinue() bool {
	return p.continueErr() == nil
}

func (p *ProductPage) continueErr() error {
	v := p.Selected()
	if v == nil {
		return ErrNoVariant
	}
	if !v.InStock() {
		return ErrOutOfStock
	}
	if p.step == StepSize && p.Units() == 0 {
		return ErrNoSizeSelected
	}
	return nil
}

// Continue advances the flow. Leaving the size step, or the color step of a
// product without sizes, adds the selection to the cart.
func (p *ProductPage) Continue() (Step, error) {
	if p.step == StepCart {
		return p.step, nil
	}
	if err := p.continueErr(); err != nil {
		return p.step, err
	}

	if p.step == StepColor && len(p.sizes) > 0 {
		p.step = StepSize
		return p.step, nil
	}

	if err := p.addSelectionToCart(); err != nil {
		return p.step, err
	}
	p.step = StepCart
	return p.step, nil
}

func (p *ProductPage) addSelectionToCart() error {
	v := p.Selected()
	item := CartItem{
		VariantID: v.ID,
		ColorName: v.ColorName,
		Price:     p.UnitPrice(),
		Image:     p.activeImage,
		Title:     p.bundle.Product.Title,
	}
	if item.Image == "" {
		item.Image = v.FirstImage()
	}

	if len(p.sizes) == 0 {
		return p.cart.Add(item)
	}

	for _, size := range p.sizes {
		for n := 0; n < p.quantities[size]; n++ {
			item.Size = size
			if err := p.cart.Add(item); err != nil {
				return err
			}
		}
	}
	return nil
}

// Back returns to the previous step
func (p *ProductPage) Back() Step {
	switch p.step {
	case StepCart:
		if len(p.sizes) > 0 {
			p.step = StepSize
		} else {
			p.step = StepColor
		}
	case StepSize:
		p.step = StepColor
	}
	return p.step
}
