package domain

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every valid order status
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid reports whether s is a known order status
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// PaymentStatus is the settlement state of an order
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

// Valid reports whether s is a known payment status
func (s PaymentStatus) Valid() bool {
	return s == PaymentStatusPending || s == PaymentStatusPaid
}

// PaymentMethod is how the customer pays
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank-transfer"
	PaymentCreditCard   PaymentMethod = "credit-card"
	PaymentEWallet      PaymentMethod = "e-wallet"
	PaymentCOD          PaymentMethod = "cod"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentBankTransfer, PaymentCreditCard, PaymentEWallet, PaymentCOD:
		return true
	}
	return false
}

// GuestUserID marks orders placed without a signed-in user
const GuestUserID = "guest"

// GuestEmail is used when an order carries no customer email at all
const GuestEmail = "guest@example.com"

// ShippingAddress is the delivery address copied into an order
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postal_code"`
	Notes      string `json:"notes"`
}

// OrderItem is a line of an order, frozen at order time
type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	Image    string          `json:"image"`
	Total    decimal.Decimal `json:"total"`
}

// Order represents a placed order
type Order struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	CustomerName    string          `json:"customer_name"`
	CustomerEmail   string          `json:"customer_email"`
	CustomerPhone   string          `json:"customer_phone"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	Items           []OrderItem     `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	Tax             decimal.Decimal `json:"tax"`
	CODFee          decimal.Decimal `json:"cod_fee"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	Status          OrderStatus     `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// IsPaid reports whether the order counts toward revenue
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// SetStatus changes the fulfilment status. Delivered orders are always paid.
func (o *Order) SetStatus(status OrderStatus, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	o.Status = status
	if status == OrderStatusDelivered {
		o.PaymentStatus = PaymentStatusPaid
	}
	o.UpdatedAt = now
	return nil
}

// SetPaymentStatus changes the payment status
func (o *Order) SetPaymentStatus(status PaymentStatus, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPayment, status)
	}
	o.PaymentStatus = status
	o.UpdatedAt = now
	return nil
}

// OrderItemsFromCart freezes cart lines into order lines
func OrderItemsFromCart(cart *Cart) []OrderItem {
	items := make([]OrderItem, 0, len(cart.Items))
	for _, line := range cart.Items {
		items = append(items, OrderItem{
			ID:       line.ID,
			Name:     line.Name,
			Price:    line.EffectivePrice(),
			Quantity: line.Quantity,
			Image:    line.Image,
			Total:    line.LineTotal(),
		})
	}
	return items
}

const orderIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewOrderID builds ORD-<last 8 digits of unix millis>-<4 base36 chars>
func NewOrderID(now time.Time) string {
	millis := strconv.FormatInt(now.UnixMilli(), 10)
	if len(millis) > 8 {
		millis = millis[len(millis)-8:]
	}
	for len(millis) < 8 {
		millis = "0" + millis
	}

	suffix := make([]byte, 4)
	for i := range suffix {
		suffix[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}

	return "ORD-" + millis + "-" + string(suffix)
}
