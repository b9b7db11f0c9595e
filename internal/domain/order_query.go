package domain

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStats aggregates the order collection for the admin dashboard
type OrderStats struct {
	TotalOrders       int             `json:"total_orders"`
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	PendingOrders     int             `json:"pending_orders"`
	CompletedOrders   int             `json:"completed_orders"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}

// ComputeOrderStats sums revenue over paid orders. The average divides that
// revenue by the number of all orders.
func ComputeOrderStats(orders []Order) OrderStats {
	stats := OrderStats{
		TotalOrders:       len(orders),
		TotalRevenue:      decimal.Zero,
		AverageOrderValue: decimal.Zero,
	}

	for i := range orders {
		o := &orders[i]
		if o.IsPaid() {
			stats.TotalRevenue = stats.TotalRevenue.Add(o.TotalAmount)
		}
		switch o.Status {
		case OrderStatusPending:
			stats.PendingOrders++
		case OrderStatusDelivered:
			stats.CompletedOrders++
		}
	}

	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue.Div(decimal.NewFromInt(int64(stats.TotalOrders)))
	}
	return stats
}

// MonthlyRevenue sums paid order totals by creation month, keyed "YYYY-MM"
func MonthlyRevenue(orders []Order) map[string]decimal.Decimal {
	revenue := make(map[string]decimal.Decimal)
	for i := range orders {
		o := &orders[i]
		if !o.IsPaid() {
			continue
		}
		key := o.CreatedAt.Format("2006-01")
		revenue[key] = revenue[key].Add(o.TotalAmount)
	}
	return revenue
}

// OrdersByStatus keeps the orders with the given status. "all" keeps everything.
func OrdersByStatus(orders []Order, status string) []Order {
	if status == "all" || status == "" {
		return orders
	}
	out := []Order{}
	for _, o := range orders {
		if string(o.Status) == status {
			out = append(out, o)
		}
	}
	return out
}

// RecentOrders returns up to limit orders, newest first. The input is not reordered.
func RecentOrders(orders []Order, limit int) []Order {
	sorted := make([]Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}

// Customer identifies the signed-in user an order history is built for
type Customer struct {
	ID    string
	Email string
}

// OrdersForCustomer returns the orders whose user id matches c.ID. When none
// match, it falls back to orders whose customer email (or user id) equals c.Email.
func OrdersForCustomer(orders []Order, c Customer) []Order {
	out := []Order{}
	if c.ID != "" {
		for _, o := range orders {
			if o.UserID == c.ID {
				out = append(out, o)
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	if c.Email == "" {
		return out
	}
	for _, o := range orders {
		if o.CustomerEmail == c.Email || o.UserID == c.Email {
			out = append(out, o)
		}
	}
	return out
}

// OrderFilter narrows the admin order list
type OrderFilter struct {
	Search string
	Status string
	From   *time.Time
	To     *time.Time
}

// Matches reports whether o passes the filter. To is inclusive of its whole day.
func (f OrderFilter) Matches(o *Order) bool {
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		if !strings.Contains(strings.ToLower(o.ID), term) &&
			!strings.Contains(strings.ToLower(o.CustomerName), term) &&
			!strings.Contains(strings.ToLower(o.CustomerEmail), term) {
			return false
		}
	}

	if f.Status != "" && f.Status != "all" && string(o.Status) != f.Status {
		return false
	}

	if f.From != nil && o.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil {
		y, m, d := f.To.Date()
		endOfDay := time.Date(y, m, d, 23, 59, 59, 999_999_999, f.To.Location())
		if o.CreatedAt.After(endOfDay) {
			return false
		}
	}
	return true
}

// FilterOrders applies f to orders
func FilterOrders(orders []Order, f OrderFilter) []Order {
	out := []Order{}
	for i := range orders {
		if f.Matches(&orders[i]) {
			out = append(out, orders[i])
		}
	}
	return out
}
