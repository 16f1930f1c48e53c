package storefront

import (
	"errors"
	"fmt"

	"shos/internal/domain"

	"github.com/google/uuid"
)

// ErrEmptyCart is returned when confirming a checkout without items
var ErrEmptyCart = errors.New("cart is empty")

// OrderSummary is what the checkout stub shows and confirms
type OrderSummary struct {
	Reference    string     `json:"reference"`
	Items        []CartItem `json:"items"`
	Subtotal     int64      `json:"subtotal"`
	Shipping     int64      `json:"shipping"`
	Total        int64      `json:"total"`
	Currency     string     `json:"currency"`
	SupportEmail string     `json:"support_email,omitempty"`
}

// CheckoutPage builds an order summary from the cart. No payment is taken and stock is untouched.
type CheckoutPage struct {
	cart      *CartPage
	settings  *domain.Settings
	reference string
}

// NewCheckoutPage creates a checkout page with a fresh order reference
func NewCheckoutPage(cart *Cart, settings *domain.Settings) *CheckoutPage {
	return &CheckoutPage{
		cart:      NewCartPage(cart, settings),
		settings:  settings,
		reference: uuid.NewString(),
	}
}

func (p *CheckoutPage) Name() string { return "checkout" }

func (p *CheckoutPage) Reference() string { return p.reference }

func (p *CheckoutPage) Summary() OrderSummary {
	summary := OrderSummary{
		Reference: p.reference,
		Items:     p.cart.cart.Items(),
		Subtotal:  p.cart.Subtotal(),
		Shipping:  p.cart.Shipping(),
		Total:     p.cart.Total(),
		Currency:  p.cart.Currency(),
	}
	if p.settings != nil {
		summary.SupportEmail = p.settings.SupportEmail
	}
	return summary
}

// Confirm returns the final summary and clears the cart
func (p *CheckoutPage) Confirm() (OrderSummary, error) {
	if p.cart.IsEmpty() {
		return OrderSummary{}, ErrEmptyCart
	}

	summary := p.Summary()
	if err := p.cart.cart.Clear(); err != nil {
		return summary, fmt.Errorf("order %s confirmed but cart was not cleared: %w", summary.Reference, err)
	}
	return summary, nil
}
