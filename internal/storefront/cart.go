package storefront

import (
	"encoding/json"
	"fmt"
)

// CartStorageKey is the storage key holding the serialized cart
const CartStorageKey = "shos_cart"

// CartItem is one (variant, size) line. Price is a snapshot taken when the item was added.
type CartItem struct {
	VariantID int64  `json:"variantId"`
	ColorName string `json:"colorName"`
	Size      string `json:"size"`
	Price     int64  `json:"price"`
	Image     string `json:"image"`
	Title     string `json:"title"`
	Quantity  int    `json:"quantity"`
}

func (i CartItem) key() cartKey {
	return cartKey{variantID: i.VariantID, size: i.Size}
}

// LineTotal is price times quantity
func (i CartItem) LineTotal() int64 {
	return i.Price * int64(i.Quantity)
}

type cartKey struct {
	variantID int64
	size      string
}

// Cart is the locally persisted shopping cart. It has a single writer.
type Cart struct {
	storage LocalStorage
	items   []CartItem
}

// LoadCart rehydrates the cart from storage. Missing or corrupt data yields an empty cart.
func LoadCart(storage LocalStorage) *Cart {
	c := &Cart{storage: storage, items: []CartItem{}}

	raw, ok, err := storage.GetItem(CartStorageKey)
	if err != nil || !ok {
		return c
	}

	var stored []CartItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		return c
	}

	for _, item := range stored {
		if item.VariantID <= 0 || item.Quantity < 1 || item.Price < 0 {
			continue
		}
		if idx := c.indexOf(item.key()); idx >= 0 {
			c.items[idx].Quantity += item.Quantity
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

func (c *Cart) indexOf(k cartKey) int {
	for i, item := range c.items {
		if item.key() == k {
			return i
		}
	}
	return -1
}

// Add increments the quantity of an existing (variant, size) entry or appends the item with quantity 1
func (c *Cart) Add(item CartItem) error {
	if idx := c.indexOf(item.key()); idx >= 0 {
		c.items[idx].Quantity++
		return c.persist()
	}

	item.Quantity = 1
	c.items = append(c.items, item)
	return c.persist()
}

// UpdateQuantity overwrites the quantity of an entry. Quantities below 1 are ignored.
func (c *Cart) UpdateQuantity(variantID int64, size string, quantity int) error {
	if quantity < 1 {
		return nil
	}
	idx := c.indexOf(cartKey{variantID: variantID, size: size})
	if idx < 0 {
		return nil
	}
	c.items[idx].Quantity = quantity
	return c.persist()
}

// Remove deletes the matching entry
func (c *Cart) Remove(variantID int64, size string) error {
	idx := c.indexOf(cartKey{variantID: variantID, size: size})
	if idx < 0 {
		return nil
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	return c.persist()
}

// Items returns a copy of the cart entries in insertion order
func (c *Cart) Items() []CartItem {
	out := make([]CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of price times quantity over all entries
func (c *Cart) Total() int64 {
	var total int64
	for _, item := range c.items {
		total += item.LineTotal()
	}
	return total
}

// Count is the number of units in the cart
func (c *Cart) Count() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

// IsEmpty reports whether the cart has no entries
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// Clear empties the cart
func (c *Cart) Clear() error {
	c.items = []CartItem{}
	return c.persist()
}

func (c *Cart) persist() error {
	data, err := json.Marshal(c.items)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := c.storage.SetItem(CartStorageKey, string(data)); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}
