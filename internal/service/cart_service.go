package service

import (
	"context"
	"errors"
	"fmt"

	"avin-home/internal/domain"
	"avin-home/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartSummary is the cart as shown to the customer
type CartSummary struct {
	CartID        string                `json:"cart_id"`
	Items         []domain.CartItem     `json:"items"`
	ItemCount     int                   `json:"item_count"`
	Total         decimal.Decimal       `json:"total"`
	Quote         domain.Quote          `json:"quote"`
	StockWarnings []domain.StockWarning `json:"stock_warnings"`
	CanCheckout   bool                  `json:"can_checkout"`
}

// CartService defines the interface for cart business logic
type CartService interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	AddProduct(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error)
	Increment(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	Decrement(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	Remove(ctx context.Context, cartID, productID string) (*domain.Cart, error)
	RemoveItems(ctx context.Context, cartID string, productIDs []string) error
	Clear(ctx context.Context, cartID string) error
	Summary(ctx context.Context, cartID string, method domain.PaymentMethod) (*CartSummary, error)
}

type cartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new instance of CartService
func NewCartService(
	carts repository.CartRepository,
	products repository.ProductRepository,
	logger *zap.Logger,
) CartService {
	return &cartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

func (s *cartService) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// AddProduct puts a catalog product in the cart. Unknown, inactive and sold
// out products are rejected.
func (s *cartService) AddProduct(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	if quantity < 1 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to find product: %w", err)
	}
	if !product.IsActive() {
		return nil, domain.ErrProductInactive
	}
	if product.Stock < 1 {
		return nil, domain.ErrOutOfStock
	}

	item := domain.NewCartItem(product)
	cart, err := s.carts.Update(ctx, cartID, func(cart *domain.Cart) error {
		return cart.Add(item, quantity)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add product to cart: %w", err)
	}

	s.logger.Debug("Product added to cart",
		zap.String("cart_id", cartID),
		zap.String("product_id", productID),
		zap.Int("quantity", quantity),
	)
	return cart, nil
}

// SetQuantity changes a line quantity, clamped to the recorded stock
func (s *cartService) SetQuantity(ctx context.Context, cartID, productID string, quantity int) (*domain.Cart, error) {
	return s.mutateLine(ctx, cartID, func(cart *domain.Cart) error {
		_, err := cart.SetQuantity(productID, quantity)
		return err
	})
}

func (s *cartService) Increment(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	return s.mutateLine(ctx, cartID, func(cart *domain.Cart) error {
		_, err := cart.Increment(productID)
		return err
	})
}

func (s *cartService) Decrement(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	return s.mutateLine(ctx, cartID, func(cart *domain.Cart) error {
		_, err := cart.Decrement(productID)
		return err
	})
}

func (s *cartService) Remove(ctx context.Context, cartID, productID string) (*domain.Cart, error) {
	return s.mutateLine(ctx, cartID, func(cart *domain.Cart) error {
		return cart.Remove(productID)
	})
}

// RemoveItems drops the given lines in one write. Lines no longer in the
// cart are skipped.
func (s *cartService) RemoveItems(ctx context.Context, cartID string, productIDs []string) error {
	_, err := s.carts.Update(ctx, cartID, func(cart *domain.Cart) error {
		for _, id := range productIDs {
			if err := cart.Remove(id); err != nil && !errors.Is(err, domain.ErrCartItemNotFound) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove cart items: %w", err)
	}
	return nil
}

func (s *cartService) Clear(ctx context.Context, cartID string) error {
	if err := s.carts.Clear(ctx, cartID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Summary refreshes recorded stock from the catalog and prices the cart.
// Quantities are never changed here.
func (s *cartService) Summary(ctx context.Context, cartID string, method domain.PaymentMethod) (*CartSummary, error) {
	cart, err := s.refreshStock(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return summarize(cartID, cart, method), nil
}

func (s *cartService) refreshStock(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.Get(ctx, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	if cart.IsEmpty() {
		return cart, nil
	}

	stock := make(map[string]int, len(cart.Items))
	for _, item := range cart.Items {
		product, err := s.products.FindByID(ctx, item.ID)
		if err != nil {
			if errors.Is(err, domain.ErrProductNotFound) {
				// removed from the catalog: nothing left to sell
				stock[item.ID] = 0
				continue
			}
			return nil, fmt.Errorf("failed to find product: %w", err)
		}
		stock[item.ID] = product.Stock
	}

	lookup := func(productID string) (int, bool) {
		v, ok := stock[productID]
		return v, ok
	}

	cart, err = s.carts.Update(ctx, cartID, func(cart *domain.Cart) error {
		cart.RefreshStock(lookup)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to refresh cart stock: %w", err)
	}
	return cart, nil
}

func (s *cartService) mutateLine(ctx context.Context, cartID string, mutate func(cart *domain.Cart) error) (*domain.Cart, error) {
	cart, err := s.carts.Update(ctx, cartID, mutate)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart: %w", err)
	}
	return cart, nil
}

func summarize(cartID string, cart *domain.Cart, method domain.PaymentMethod) *CartSummary {
	if !method.Valid() {
		method = domain.PaymentBankTransfer
	}
	total := cart.Total()
	return &CartSummary{
		CartID:        cartID,
		Items:         cart.Items,
		ItemCount:     cart.ItemCount(),
		Total:         total,
		Quote:         domain.NewQuote(total, method),
		StockWarnings: cart.StockWarnings(),
		CanCheckout:   cart.CanCheckout(),
	}
}
