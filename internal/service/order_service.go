package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"avin-home/internal/domain"
	"avin-home/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	// DefaultRecentLimit caps ListRecent when no limit is given
	DefaultRecentLimit = 10
	// DashboardRecentLimit is the number of recent orders on the dashboard
	DashboardRecentLimit = 5
)

// OrderInput carries everything needed to place an order
type OrderInput struct {
	UserID          string
	UserEmail       string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress domain.ShippingAddress
	PaymentMethod   domain.PaymentMethod
	Items           []domain.OrderItem
	Quote           domain.Quote
}

// OrderSearch is a filtered, paginated admin query
type OrderSearch struct {
	Filter   domain.OrderFilter
	Page     int
	PageSize int
}

// Dashboard is the admin landing view
type Dashboard struct {
	Stats         domain.OrderStats `json:"stats"`
	RecentOrders  []domain.Order    `json:"recent_orders"`
	PendingOrders []domain.Order    `json:"pending_orders"`
	ProductCount  int               `json:"product_count"`
}

// OrderService defines the interface for order business logic
type OrderService interface {
	Create(ctx context.Context, input OrderInput) (*domain.Order, error)
	Get(ctx context.Context, id string) (*domain.Order, error)
	ListByStatus(ctx context.Context, status string) ([]domain.Order, error)
	ListRecent(ctx context.Context, limit int) ([]domain.Order, error)
	ListForUser(ctx context.Context, customer domain.Customer) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error)
	UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (domain.OrderStats, error)
	MonthlyRevenue(ctx context.Context) (map[string]decimal.Decimal, error)
	Search(ctx context.Context, search OrderSearch) (domain.Page[domain.Order], error)
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type orderService struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(
	orders repository.OrderRepository,
	products repository.ProductRepository,
	logger *zap.Logger,
) OrderService {
	return &orderService{
		orders:   orders,
		products: products,
		logger:   logger,
		now:      time.Now,
	}
}

// Create places a new pending order
func (s *orderService) Create(ctx context.Context, input OrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	method := input.PaymentMethod
	if method == "" {
		method = domain.PaymentBankTransfer
	}
	if !method.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMethod, method)
	}

	now := s.now()
	order := &domain.Order{
		ID:              domain.NewOrderID(now),
		UserID:          firstNonEmpty(input.UserID, input.UserEmail, domain.GuestUserID),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   firstNonEmpty(input.CustomerEmail, input.UserEmail, domain.GuestEmail),
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   method,
		Items:           input.Items,
		Subtotal:        input.Quote.Subtotal,
		ShippingFee:     input.Quote.ShippingFee,
		Tax:             input.Quote.Tax,
		CODFee:          input.Quote.CODFee,
		TotalAmount:     input.Quote.Total,
		Status:          domain.OrderStatusPending,
		PaymentStatus:   domain.PaymentStatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", order.UserID),
		zap.String("payment_method", string(order.PaymentMethod)),
		zap.String("total", order.TotalAmount.String()),
	)
	return order, nil
}

func (s *orderService) Get(ctx context.Context, id string) (*domain.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}

func (s *orderService) ListByStatus(ctx context.Context, status string) ([]domain.Order, error) {
	orders, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return domain.OrdersByStatus(orders, status), nil
}

// ListRecent returns the newest orders. A non-positive limit means DefaultRecentLimit.
func (s *orderService) ListRecent(ctx context.Context, limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	orders, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return domain.RecentOrders(orders, limit), nil
}

// ListForUser returns the order history of a signed-in customer
func (s *orderService) ListForUser(ctx context.Context, customer domain.Customer) ([]domain.Order, error) {
	orders, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return domain.OrdersForCustomer(orders, customer), nil
}

// UpdateStatus sets the fulfilment status. Delivering an order marks it paid.
func (s *orderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	order, err := s.orders.Update(ctx, id, func(o *domain.Order) error {
		return o.SetStatus(status, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", id),
		zap.String("status", string(order.Status)),
		zap.String("payment_status", string(order.PaymentStatus)),
	)
	return order, nil
}

func (s *orderService) UpdatePaymentStatus(ctx context.Context, id string, status domain.PaymentStatus) (*domain.Order, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPayment, status)
	}

	order, err := s.orders.Update(ctx, id, func(o *domain.Order) error {
		return o.SetPaymentStatus(status, s.now())
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update payment status: %w", err)
	}

	s.logger.Info("Order payment status updated",
		zap.String("order_id", id),
		zap.String("payment_status", string(order.PaymentStatus)),
	)
	return order, nil
}

func (s *orderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	s.logger.Info("Order deleted", zap.String("order_id", id))
	return nil
}

func (s *orderService) Stats(ctx context.Context) (domain.OrderStats, error) {
	orders, err := s.list(ctx)
	if err != nil {
		return domain.OrderStats{}, err
	}
	return domain.ComputeOrderStats(orders), nil
}

func (s *orderService) MonthlyRevenue(ctx context.Context) (map[string]decimal.Decimal, error) {
	orders, err := s.list(ctx)
	if err != nil {
		return nil, err
	}
	return domain.MonthlyRevenue(orders), nil
}

// Search filters the order list and returns one page of it
func (s *orderService) Search(ctx context.Context, search OrderSearch) (domain.Page[domain.Order], error) {
	orders, err := s.list(ctx)
	if err != nil {
		return domain.Page[domain.Order]{}, err
	}
	return domain.Paginate(domain.FilterOrders(orders, search.Filter), search.Page, search.PageSize), nil
}

// Dashboard aggregates stats, recent and pending orders and the catalog size
func (s *orderService) Dashboard(ctx context.Context) (*Dashboard, error) {
	orders, err := s.list(ctx)
	if err != nil {
		return nil, err
	}

	count, err := s.products.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	return &Dashboard{
		Stats:         domain.ComputeOrderStats(orders),
		RecentOrders:  domain.RecentOrders(orders, DashboardRecentLimit),
		PendingOrders: domain.OrdersByStatus(orders, string(domain.OrderStatusPending)),
		ProductCount:  count,
	}, nil
}

func (s *orderService) list(ctx context.Context) ([]domain.Order, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
