package domain

// Product represents the storefront product. Only one product is active at a time.
type Product struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description" db:"description"`
	BasePrice   int64  `json:"base_price" db:"base_price"`
	Active      bool   `json:"active" db:"active"`
}

// Variant is a color/SKU specific instance of the product
type Variant struct {
	ID            int64    `json:"id" db:"id"`
	ProductID     int64    `json:"product_id" db:"product_id"`
	ColorName     string   `json:"color_name" db:"color_name"`
	ColorHex      *string  `json:"color_hex" db:"color_hex"`
	SKU           string   `json:"sku" db:"sku"`
	PriceOverride *int64   `json:"price_override" db:"price_override"`
	StockQty      int      `json:"stock_qty" db:"stock_qty"`
	Images        []string `json:"images"`
}

// VariantSummary is the admin view of a variant without stock or pricing
type VariantSummary struct {
	ID        int64    `json:"id"`
	ColorName string   `json:"color_name"`
	ColorHex  *string  `json:"color_hex"`
	SKU       string   `json:"sku"`
	Images    []string `json:"images"`
}

// VariantImages is returned after an image list replacement
type VariantImages struct {
	ID        int64    `json:"id"`
	ColorName string   `json:"color_name"`
	Images    []string `json:"images"`
}

// Settings holds the storefront-wide settings row
type Settings struct {
	ShippingFlatFee int64  `json:"shipping_flat_fee" db:"shipping_flat_fee"`
	Currency        string `json:"currency" db:"currency"`
	SupportEmail    string `json:"support_email" db:"support_email"`
}

// ProductBundle is the aggregate catalog read
type ProductBundle struct {
	Product  *Product  `json:"product"`
	Variants []Variant `json:"variants"`
	Settings *Settings `json:"settings"`
}

// ImageAsset is an image file available for variant galleries
type ImageAsset struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Summary returns the admin view of the variant
func (v Variant) Summary() VariantSummary {
	return VariantSummary{
		ID:        v.ID,
		ColorName: v.ColorName,
		ColorHex:  v.ColorHex,
		SKU:       v.SKU,
		Images:    v.Images,
	}
}

// InStock reports whether the variant can be ordered
func (v Variant) InStock() bool {
	return v.StockQty > 0
}

// FirstImage returns the preview image or an empty string
func (v Variant) FirstImage() string {
	if len(v.Images) == 0 {
		return ""
	}
	return v.Images[0]
}
