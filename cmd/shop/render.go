package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"shos/internal/domain"
	"shos/internal/storefront"
)

func render(w io.Writer, page storefront.Page) error {
	switch p := page.(type) {
	case *storefront.ProductPage:
		renderProduct(w, p)
	case *storefront.CartPage:
		renderCart(w, p)
	case *storefront.CheckoutPage:
		renderSummary(w, p.Summary())
	case *storefront.AdminPage:
		renderAdmin(w, p)
	default:
		return fmt.Errorf("no renderer for page %s", page.Name())
	}
	return nil
}

func renderProduct(w io.Writer, p *storefront.ProductPage) {
	product := p.Product()
	currency := p.Currency()

	fmt.Fprintf(w, "%s\n%s\n\n", product.Title, product.Description)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "\tID\tCOLOR\tSKU\tPRICE\tSTOCK")
	selected := p.Selected()
	for _, v := range p.Variants() {
		marker := ""
		if selected != nil && selected.ID == v.ID {
			marker = "*"
		}
		stock := fmt.Sprintf("%d", v.StockQty)
		if !v.InStock() {
			stock = "out of stock"
		}
		price := domain.ResolvePrice(v, product.BasePrice)
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%s\n", marker, v.ID, v.ColorName, v.SKU, storefront.FormatPrice(price, currency), stock)
	}
	tw.Flush()

	if img := p.ActiveImage(); img != "" {
		fmt.Fprintf(w, "\nimage: %s\n", img)
	}
	if sizes := p.Sizes(); len(sizes) > 0 {
		chosen := []string{}
		for _, size := range sizes {
			if q := p.SizeQuantity(size); q > 0 {
				chosen = append(chosen, fmt.Sprintf("%s×%d", size, q))
			}
		}
		fmt.Fprintf(w, "sizes: %s\n", strings.Join(sizes, " "))
		if len(chosen) > 0 {
			fmt.Fprintf(w, "selected: %s\n", strings.Join(chosen, " "))
		}
	}

	fmt.Fprintf(w, "step: %s\n", p.Step())
	fmt.Fprintf(w, "unit price: %s\n", storefront.FormatPrice(p.UnitPrice(), currency))
	fmt.Fprintf(w, "total due: %s\n", storefront.FormatPrice(p.TotalDue(), currency))
	if !p.CanContinue() && p.Step() != storefront.StepCart {
		fmt.Fprintln(w, "continue: unavailable")
	}
}

func renderCart(w io.Writer, p *storefront.CartPage) {
	if p.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "VARIANT\tCOLOR\tSIZE\tQTY\tPRICE\tTOTAL")
	for _, line := range p.Lines() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%s\n",
			line.Item.VariantID, line.Item.ColorName, line.Item.Size, line.Item.Quantity, line.Price, line.Total)
	}
	tw.Flush()

	fmt.Fprintf(w, "\nsubtotal: %s\n", storefront.FormatPrice(p.Subtotal(), p.Currency()))
	fmt.Fprintf(w, "shipping: %s\n", storefront.FormatPrice(p.Shipping(), p.Currency()))
	fmt.Fprintf(w, "total: %s\n", storefront.FormatPrice(p.Total(), p.Currency()))
}

func renderSummary(w io.Writer, s storefront.OrderSummary) {
	fmt.Fprintf(w, "order: %s\n", s.Reference)
	for _, item := range s.Items {
		fmt.Fprintf(w, "  %s %s %s ×%d  %s\n", item.Title, item.ColorName, item.Size, item.Quantity,
			storefront.FormatPrice(item.LineTotal(), s.Currency))
	}
	fmt.Fprintf(w, "subtotal: %s\n", storefront.FormatPrice(s.Subtotal, s.Currency))
	fmt.Fprintf(w, "shipping: %s\n", storefront.FormatPrice(s.Shipping, s.Currency))
	fmt.Fprintf(w, "total: %s\n", storefront.FormatPrice(s.Total, s.Currency))
	if s.SupportEmail != "" {
		fmt.Fprintf(w, "questions: %s\n", s.SupportEmail)
	}
}

func renderAdmin(w io.Writer, p *storefront.AdminPage) {
	if product := p.Product(); product != nil {
		fmt.Fprintf(w, "product #%d: %s (%d)\n\n", product.ID, product.Title, product.BasePrice)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCOLOR\tSKU\tIMAGES")
	for _, v := range p.Variants() {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\n", v.ID, v.ColorName, v.SKU, len(v.Images))
	}
	tw.Flush()

	if p.SelectedID() != 0 {
		fmt.Fprintf(w, "\nvariant #%d images:\n", p.SelectedID())
		for i, img := range p.Draft() {
			fmt.Fprintf(w, "  [%d] %s\n", i, img)
		}
	}

	if assets := p.Assets(); len(assets) > 0 {
		fmt.Fprintln(w, "\nassets:")
		for _, a := range assets {
			fmt.Fprintf(w, "  %s\n", a.Name)
		}
	}
}
