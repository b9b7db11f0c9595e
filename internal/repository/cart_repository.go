package repository

import (
	"context"
	"fmt"
	"sync"

	"avin-home/internal/domain"
	"avin-home/internal/storage"

	"go.uber.org/zap"
)

// CartRepository defines the interface for cart data access. Every cart is
// kept in memory and mirrored to its own snapshot after each mutation.
type CartRepository interface {
	Get(ctx context.Context, cartID string) (*domain.Cart, error)
	Update(ctx context.Context, cartID string, mutate func(cart *domain.Cart) error) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type cartRepository struct {
	mu     sync.Mutex
	carts  map[string]*domain.Cart
	store  storage.KeyValueStore
	logger *zap.Logger
}

// NewCartRepository creates a CartRepository persisting into store
func NewCartRepository(store storage.KeyValueStore, logger *zap.Logger) CartRepository {
	return &cartRepository{
		carts:  make(map[string]*domain.Cart),
		store:  store,
		logger: logger,
	}
}

func (r *cartRepository) snapshot(cartID string) *storage.Snapshot[domain.Cart] {
	return storage.NewSnapshot[domain.Cart](r.store, storage.CartKey(cartID), r.logger)
}

// load returns the cached cart, reading its snapshot on first access.
// Callers hold the lock.
func (r *cartRepository) load(ctx context.Context, cartID string) (*domain.Cart, error) {
	if cart, ok := r.carts[cartID]; ok {
		return cart, nil
	}

	stored, found, err := r.snapshot(cartID).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	cart := domain.NewCart()
	if found && stored.Items != nil {
		cart = &stored
	}
	r.carts[cartID] = cart
	return cart, nil
}

// Get returns a copy of the cart. Unknown carts are empty.
func (r *cartRepository) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.load(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return cart.Clone(), nil
}

// Update applies mutate to the cart and persists the result. The cart is
// left untouched when mutate fails.
func (r *cartRepository) Update(ctx context.Context, cartID string, mutate func(cart *domain.Cart) error) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, err := r.load(ctx, cartID)
	if err != nil {
		return nil, err
	}

	working := cart.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}

	r.carts[cartID] = working
	r.persist(ctx, cartID, working)
	return working.Clone(), nil
}

// Clear empties the cart
func (r *cartRepository) Clear(ctx context.Context, cartID string) error {
	_, err := r.Update(ctx, cartID, func(cart *domain.Cart) error {
		cart.Clear()
		return nil
	})
	return err
}

func (r *cartRepository) persist(ctx context.Context, cartID string, cart *domain.Cart) {
	if err := r.snapshot(cartID).Save(ctx, *cart); err != nil {
		r.logger.Error("Failed to persist cart",
			zap.String("cart_id", cartID),
			zap.Error(err),
		)
	}
}
