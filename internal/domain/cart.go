package domain

import (
	"github.com/shopspring/decimal"
)

// CartItem is a cart line. Product fields are copied at add time so later
// catalog edits do not change what the customer put in the cart.
type CartItem struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Image         string           `json:"image"`
	Stock         int              `json:"stock"`
	Quantity      int              `json:"quantity"`
}

// NewCartItem snapshots a product into a cart line with quantity 0
func NewCartItem(p *Product) CartItem {
	item := CartItem{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Image: p.Image,
		Stock: p.Stock,
	}
	if p.DiscountPrice != nil {
		d := *p.DiscountPrice
		item.DiscountPrice = &d
	}
	return item
}

// EffectivePrice returns the discounted price when present
func (i CartItem) EffectivePrice() decimal.Decimal {
	return effectivePrice(i.Price, i.DiscountPrice)
}

// LineTotal is quantity times effective price
func (i CartItem) LineTotal() decimal.Decimal {
	return i.EffectivePrice().Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ExceedsStock reports whether the quantity is above the recorded stock
func (i CartItem) ExceedsStock() bool {
	return i.Quantity > i.Stock
}

// StockWarning describes a cart line whose quantity exceeds recorded stock
type StockWarning struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
}

// Cart holds the line items of one shopping cart
type Cart struct {
	Items []CartItem `json:"items"`
}

// NewCart returns an empty cart
func NewCart() *Cart {
	return &Cart{Items: []CartItem{}}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.Items {
		if c.Items[i].ID == productID {
			return i
		}
	}
	return -1
}

// Item returns a copy of the line for productID
func (c *Cart) Item(productID string) (CartItem, bool) {
	if idx := c.indexOf(productID); idx >= 0 {
		return c.Items[idx], true
	}
	return CartItem{}, false
}

// Add puts qty units of item in the cart. An existing line for the same
// product has its quantity increased. The result is clamped to the stock.
func (c *Cart) Add(item CartItem, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if item.Stock < 1 {
		return ErrOutOfStock
	}

	if idx := c.indexOf(item.ID); idx >= 0 {
		existing := &c.Items[idx]
		// refresh the snapshot but keep the accumulated quantity
		quantity := existing.Quantity + qty
		*existing = item
		existing.Quantity = clamp(quantity, 1, item.Stock)
		return nil
	}

	item.Quantity = clamp(qty, 1, item.Stock)
	c.Items = append(c.Items, item)
	return nil
}

// Remove drops the line for productID
func (c *Cart) Remove(productID string) error {
	idx := c.indexOf(productID)
	if idx < 0 {
		return ErrCartItemNotFound
	}
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return nil
}

// SetQuantity sets the quantity of a line, clamped to [1, stock]
func (c *Cart) SetQuantity(productID string, qty int) (CartItem, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartItem{}, ErrCartItemNotFound
	}
	item := &c.Items[idx]
	item.Quantity = clamp(qty, 1, item.Stock)
	return *item, nil
}

// Increment raises the quantity of a line by one unless it is at the stock ceiling
func (c *Cart) Increment(productID string) (CartItem, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartItem{}, ErrCartItemNotFound
	}
	item := &c.Items[idx]
	if item.Quantity < item.Stock {
		item.Quantity++
	}
	return *item, nil
}

// Decrement lowers the quantity of a line by one, never below 1
func (c *Cart) Decrement(productID string) (CartItem, error) {
	idx := c.indexOf(productID)
	if idx < 0 {
		return CartItem{}, ErrCartItemNotFound
	}
	item := &c.Items[idx]
	if item.Quantity > 1 {
		item.Quantity--
	}
	return *item, nil
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []CartItem{}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total is the sum of quantity times effective price over all lines
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// ItemCount is the sum of line quantities
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// RefreshStock overwrites the recorded stock of each line with the value
// returned by lookup. Quantities are left alone so that a line which no
// longer fits shows up in StockWarnings instead of being rewritten.
func (c *Cart) RefreshStock(lookup func(productID string) (int, bool)) {
	for i := range c.Items {
		if stock, ok := lookup(c.Items[i].ID); ok {
			c.Items[i].Stock = stock
		}
	}
}

// StockWarnings lists every line whose quantity exceeds its recorded stock
func (c *Cart) StockWarnings() []StockWarning {
	warnings := []StockWarning{}
	for _, item := range c.Items {
		if item.ExceedsStock() {
			warnings = append(warnings, StockWarning{
				ProductID: item.ID,
				Name:      item.Name,
				Requested: item.Quantity,
				Available: item.Stock,
			})
		}
	}
	return warnings
}

// HasStockConflict reports whether any line exceeds its recorded stock
func (c *Cart) HasStockConflict() bool {
	for _, item := range c.Items {
		if item.ExceedsStock() {
			return true
		}
	}
	return false
}

// CanCheckout reports whether the cart may proceed to checkout
func (c *Cart) CanCheckout() bool {
	return !c.IsEmpty() && !c.HasStockConflict()
}

// Clone returns a deep copy of the cart
func (c *Cart) Clone() *Cart {
	items := make([]CartItem, len(c.Items))
	for i, item := range c.Items {
		if item.DiscountPrice != nil {
			d := *item.DiscountPrice
			item.DiscountPrice = &d
		}
		items[i] = item
	}
	return &Cart{Items: items}
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
