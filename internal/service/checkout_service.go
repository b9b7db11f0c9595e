package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"avin-home/internal/domain"

	"go.uber.org/zap"
)

// CheckoutState is a checkout flow together with the priced cart behind it
type CheckoutState struct {
	Checkout domain.Checkout `json:"checkout"`
	Summary  *CartSummary    `json:"summary"`
}

// CheckoutService defines the interface for the checkout flow
type CheckoutService interface {
	Start(ctx context.Context, cartID string, customer *domain.Customer) (*CheckoutState, error)
	Get(ctx context.Context, cartID string) (*CheckoutState, error)
	UpdateShipping(ctx context.Context, cartID string, info domain.ShippingInfo) (*CheckoutState, error)
	SelectPayment(ctx context.Context, cartID string, method domain.PaymentMethod) (*CheckoutState, error)
	Next(ctx context.Context, cartID string) (*CheckoutState, error)
	Back(ctx context.Context, cartID string) (*CheckoutState, error)
	Confirm(ctx context.Context, cartID string) (*domain.Order, error)
}

type checkoutService struct {
	mu         sync.Mutex
	sessions   map[string]*domain.Checkout
	carts      CartService
	orders     OrderService
	clearDelay time.Duration
	afterFunc  func(d time.Duration, f func())
	logger     *zap.Logger
}

// NewCheckoutService creates a new instance of CheckoutService. After an order
// is placed the cart is cleared once clearDelay has passed.
func NewCheckoutService(
	carts CartService,
	orders OrderService,
	clearDelay time.Duration,
	logger *zap.Logger,
) CheckoutService {
	return &checkoutService{
		sessions:   make(map[string]*domain.Checkout),
		carts:      carts,
		orders:     orders,
		clearDelay: clearDelay,
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
		logger: logger,
	}
}

// Start opens a fresh flow for the cart. A signed-in customer has the
// contact email pre-filled. A flow that placed an order blocks new flows
// until its delayed clear has run.
func (s *checkoutService) Start(ctx context.Context, cartID string, customer *domain.Customer) (*CheckoutState, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, domain.ErrEmptyCart
	}

	checkout := domain.NewCheckout(cartID)
	if customer != nil {
		checkout.UserID = customer.ID
		checkout.Shipping.Email = customer.Email
	}

	s.mu.Lock()
	if existing, ok := s.sessions[cartID]; ok {
		switch {
		case existing.Complete():
			s.mu.Unlock()
			return nil, domain.ErrCheckoutCompleted
		case existing.Processing:
			s.mu.Unlock()
			return nil, domain.ErrCheckoutProcessing
		}
	}
	s.sessions[cartID] = checkout
	snapshot := *checkout
	s.mu.Unlock()

	s.logger.Debug("Checkout started",
		zap.String("cart_id", cartID),
		zap.Bool("signed_in", customer != nil),
	)
	return s.state(ctx, snapshot)
}

func (s *checkoutService) Get(ctx context.Context, cartID string) (*CheckoutState, error) {
	checkout, err := s.apply(cartID, func(*domain.Checkout) error { return nil })
	if err != nil {
		return nil, err
	}
	return s.state(ctx, checkout)
}

func (s *checkoutService) UpdateShipping(ctx context.Context, cartID string, info domain.ShippingInfo) (*CheckoutState, error) {
	checkout, err := s.apply(cartID, func(c *domain.Checkout) error {
		return c.UpdateShipping(info)
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, checkout)
}

func (s *checkoutService) SelectPayment(ctx context.Context, cartID string, method domain.PaymentMethod) (*CheckoutState, error) {
	checkout, err := s.apply(cartID, func(c *domain.Checkout) error {
		return c.SelectPayment(method)
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, checkout)
}

// Next advances the flow. Invalid shipping data yields a *ValidationError
// listing every offending field.
func (s *checkoutService) Next(ctx context.Context, cartID string) (*CheckoutState, error) {
	checkout, err := s.apply(cartID, func(c *domain.Checkout) error {
		if err := c.Next(); err != nil {
			if len(c.Errors) > 0 {
				return &ValidationError{Fields: c.Errors, Err: err}
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, checkout)
}

func (s *checkoutService) Back(ctx context.Context, cartID string) (*CheckoutState, error) {
	checkout, err := s.apply(cartID, func(c *domain.Checkout) error {
		return c.Back()
	})
	if err != nil {
		return nil, err
	}
	return s.state(ctx, checkout)
}

// Confirm places the order. Only one confirmation per flow may run. The cart
// must be non-empty and within stock; the stock check uses live catalog values.
func (s *checkoutService) Confirm(ctx context.Context, cartID string) (*domain.Order, error) {
	checkout, err := s.apply(cartID, func(c *domain.Checkout) error {
		return c.BeginSubmit()
	})
	if err != nil {
		return nil, err
	}

	order, err := s.placeOrder(ctx, checkout)
	if err != nil {
		s.mu.Lock()
		if c, ok := s.sessions[cartID]; ok {
			c.AbortSubmit()
		}
		s.mu.Unlock()

		s.logger.Warn("Checkout confirmation failed",
			zap.String("cart_id", cartID),
			zap.Error(err),
		)
		return nil, err
	}

	s.mu.Lock()
	if c, ok := s.sessions[cartID]; ok {
		c.FinishSubmit(order.ID)
	}
	s.mu.Unlock()

	ordered := make([]string, len(order.Items))
	for i, item := range order.Items {
		ordered[i] = item.ID
	}
	s.afterFunc(s.clearDelay, func() {
		s.clearAfterOrder(cartID, order.ID, ordered)
	})

	return order, nil
}

func (s *checkoutService) placeOrder(ctx context.Context, checkout domain.Checkout) (*domain.Order, error) {
	summary, err := s.carts.Summary(ctx, checkout.CartID, checkout.PaymentMethod)
	if err != nil {
		return nil, err
	}
	if len(summary.Items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	if !summary.CanCheckout {
		return nil, &StockConflictError{Warnings: summary.StockWarnings}
	}

	cart := &domain.Cart{Items: summary.Items}
	shipping := checkout.Shipping

	return s.orders.Create(ctx, OrderInput{
		UserID:          checkout.UserID,
		UserEmail:       shipping.Email,
		CustomerName:    shipping.FullName,
		CustomerEmail:   shipping.Email,
		CustomerPhone:   shipping.Phone,
		ShippingAddress: shipping.ShippingAddress(),
		PaymentMethod:   checkout.PaymentMethod,
		Items:           domain.OrderItemsFromCart(cart),
		Quote:           summary.Quote,
	})
}

// clearAfterOrder takes the ordered lines out of the cart and ends the flow
// that placed orderID. Lines added after the confirmation stay.
func (s *checkoutService) clearAfterOrder(cartID, orderID string, productIDs []string) {
	if err := s.carts.RemoveItems(context.Background(), cartID, productIDs); err != nil {
		s.logger.Error("Failed to clear cart after order",
			zap.String("cart_id", cartID),
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	s.mu.Lock()
	if c, ok := s.sessions[cartID]; ok && c.OrderID == orderID {
		delete(s.sessions, cartID)
	}
	s.mu.Unlock()

	s.logger.Debug("Cart cleared after order",
		zap.String("cart_id", cartID),
		zap.String("order_id", orderID),
		zap.Int("lines", len(productIDs)),
	)
}

// apply runs fn on the session under the lock and returns a copy of the result
func (s *checkoutService) apply(cartID string, fn func(c *domain.Checkout) error) (domain.Checkout, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	checkout, ok := s.sessions[cartID]
	if !ok {
		return domain.Checkout{}, domain.ErrCheckoutNotFound
	}
	if err := fn(checkout); err != nil {
		return domain.Checkout{}, err
	}
	return *checkout, nil
}

func (s *checkoutService) state(ctx context.Context, checkout domain.Checkout) (*CheckoutState, error) {
	summary, err := s.carts.Summary(ctx, checkout.CartID, checkout.PaymentMethod)
	if err != nil {
		return nil, fmt.Errorf("failed to price checkout: %w", err)
	}
	return &CheckoutState{Checkout: checkout, Summary: summary}, nil
}
