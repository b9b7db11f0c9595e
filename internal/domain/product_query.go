package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// SortOrder represents the sort direction
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)

// ProductQuery describes a search over the catalog
type ProductQuery struct {
	Search    string
	Category  string
	Status    string
	SortBy    string
	SortOrder SortOrder
	Page      int
	PageSize  int
}

var productSortFields = map[string]bool{
	"name":   true,
	"price":  true,
	"stock":  true,
	"rating": true,
}

// normalize fills the defaults
func (q ProductQuery) normalize() ProductQuery {
	if !productSortFields[q.SortBy] {
		q.SortBy = "name"
	}
	if q.SortOrder != SortOrderAsc && q.SortOrder != SortOrderDesc {
		q.SortOrder = SortOrderAsc
	}
	if q.Category == "" {
		q.Category = "all"
	}
	if q.Status == "" {
		q.Status = "all"
	}
	return q
}

func (q ProductQuery) matches(p *Product) bool {
	if term := strings.ToLower(q.Search); term != "" {
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			return false
		}
	}
	if q.Category != "all" && p.Category != q.Category {
		return false
	}
	if q.Status != "all" && string(p.Status) != q.Status {
		return false
	}
	return true
}

func (q ProductQuery) less(a, b *Product) bool {
	switch q.SortBy {
	case "price":
		return a.EffectivePrice().LessThan(b.EffectivePrice())
	case "stock":
		return a.Stock < b.Stock
	case "rating":
		return a.Rating < b.Rating
	default:
		return strings.ToLower(a.Name) < strings.ToLower(b.Name)
	}
}

// QueryProducts filters, sorts and paginates products
func QueryProducts(products []Product, q ProductQuery) Page[Product] {
	q = q.normalize()

	filtered := []Product{}
	for i := range products {
		if q.matches(&products[i]) {
			filtered = append(filtered, products[i])
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		if q.SortOrder == SortOrderDesc {
			return q.less(&filtered[j], &filtered[i])
		}
		return q.less(&filtered[i], &filtered[j])
	})

	return Paginate(filtered, q.Page, q.PageSize)
}

// InventoryStats summarizes the catalog for the admin products view
type InventoryStats struct {
	TotalProducts  int             `json:"total_products"`
	ActiveProducts int             `json:"active_products"`
	LowStock       int             `json:"low_stock"`
	OutOfStock     int             `json:"out_of_stock"`
	TotalValue     decimal.Decimal `json:"total_value"`
}

// ComputeInventoryStats counts low stock as 0 < stock < LowStockThreshold and
// values inventory at effective price times stock.
func ComputeInventoryStats(products []Product) InventoryStats {
	stats := InventoryStats{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
	}
	for i := range products {
		p := &products[i]
		if p.IsActive() {
			stats.ActiveProducts++
		}
		switch {
		case p.Stock == 0:
			stats.OutOfStock++
		case p.Stock > 0 && p.Stock < LowStockThreshold:
			stats.LowStock++
		}
		stats.TotalValue = stats.TotalValue.Add(p.EffectivePrice().Mul(decimal.NewFromInt(int64(p.Stock))))
	}
	return stats
}
