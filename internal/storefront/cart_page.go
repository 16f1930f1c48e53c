package storefront

import "shos/internal/domain"

// CartLine is a cart entry with its rendered totals
type CartLine struct {
	Item      CartItem
	LineTotal int64
	Price     string
	Total     string
}

// CartPage lists the cart with shipping and totals
type CartPage struct {
	cart     *Cart
	settings *domain.Settings
}

// NewCartPage creates a cart page. A nil settings means no shipping fee and no currency.
func NewCartPage(cart *Cart, settings *domain.Settings) *CartPage {
	return &CartPage{cart: cart, settings: settings}
}

func (p *CartPage) Name() string { return "cart" }

func (p *CartPage) Currency() string {
	if p.settings == nil {
		return ""
	}
	return p.settings.Currency
}

func (p *CartPage) Lines() []CartLine {
	items := p.cart.Items()
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			Item:      item,
			LineTotal: item.LineTotal(),
			Price:     FormatPrice(item.Price, p.Currency()),
			Total:     FormatPrice(item.LineTotal(), p.Currency()),
		})
	}
	return lines
}

func (p *CartPage) UpdateQuantity(variantID int64, size string, quantity int) error {
	return p.cart.UpdateQuantity(variantID, size, quantity)
}

func (p *CartPage) Remove(variantID int64, size string) error {
	return p.cart.Remove(variantID, size)
}

func (p *CartPage) IsEmpty() bool { return p.cart.IsEmpty() }

func (p *CartPage) Count() int { return p.cart.Count() }

func (p *CartPage) Subtotal() int64 { return p.cart.Total() }

// Shipping is the flat fee, charged only when the cart has items
func (p *CartPage) Shipping() int64 {
	if p.settings == nil || p.cart.IsEmpty() {
		return 0
	}
	return p.settings.ShippingFlatFee
}

func (p *CartPage) Total() int64 {
	return p.Subtotal() + p.Shipping()
}
