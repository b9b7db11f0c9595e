package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus controls whether a product is shown in the storefront
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Valid reports whether s is a known product status
func (s ProductStatus) Valid() bool {
	return s == ProductStatusActive || s == ProductStatusInactive
}

// LowStockThreshold is the stock level below which a product counts as low stock
const LowStockThreshold = 10

// Product represents a product in the catalog
type Product struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Category      string           `json:"category"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	Stock         int              `json:"stock"`
	Status        ProductStatus    `json:"status"`
	Description   string           `json:"description"`
	Image         string           `json:"image"`
	Rating        float64          `json:"rating"`
	Reviews       []Review         `json:"reviews"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// Review is a customer review attached to a product
type Review struct {
	Author    string    `json:"author"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// EffectivePrice returns the discount price when one is set, otherwise the list price
func (p *Product) EffectivePrice() decimal.Decimal {
	return effectivePrice(p.Price, p.DiscountPrice)
}

// IsActive reports whether the product can be sold
func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// ProductPatch holds the fields of a partial product update. Nil fields are left untouched.
type ProductPatch struct {
	Name          *string          `json:"name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	ClearDiscount bool             `json:"clear_discount,omitempty"`
	Stock         *int             `json:"stock,omitempty"`
	Status        *ProductStatus   `json:"status,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Image         *string          `json:"image,omitempty"`
	Rating        *float64         `json:"rating,omitempty"`
}

// Apply merges the patch into p
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ClearDiscount {
		p.DiscountPrice = nil
	} else if patch.DiscountPrice != nil {
		d := *patch.DiscountPrice
		p.DiscountPrice = &d
	}
	if patch.Stock != nil {
		p.Stock = *patch.Stock
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
}

// Category represents a product category
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Categories is the fixed category list of the store
var Categories = []Category{
	{ID: "living-room", Name: "Ruang Tamu"},
	{ID: "bedroom", Name: "Kamar Tidur"},
	{ID: "dining-room", Name: "Ruang Makan"},
	{ID: "office", Name: "Kantor"},
	{ID: "outdoor", Name: "Outdoor"},
	{ID: "decor", Name: "Dekorasi"},
}

// IsKnownCategory reports whether id names one of the fixed categories
func IsKnownCategory(id string) bool {
	for _, c := range Categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

func effectivePrice(price decimal.Decimal, discount *decimal.Decimal) decimal.Decimal {
	if discount != nil && discount.IsPositive() {
		return *discount
	}
	return price
}
