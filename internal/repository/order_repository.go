package repository

import (
	"context"
	"fmt"
	"sync"

	"avin-home/internal/domain"
	"avin-home/internal/storage"

	"go.uber.org/zap"
)

// OrderRepository defines the interface for order data access
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	List(ctx context.Context) ([]domain.Order, error)
	Update(ctx context.Context, id string, mutate func(order *domain.Order) error) (*domain.Order, error)
	Delete(ctx context.Context, id string) error
}

type orderRepository struct {
	mu       sync.RWMutex
	orders   []domain.Order
	snapshot *storage.Snapshot[[]domain.Order]
	logger   *zap.Logger
}

// NewOrderRepository loads the order snapshot and returns a repository over it
func NewOrderRepository(ctx context.Context, store storage.KeyValueStore, logger *zap.Logger) (OrderRepository, error) {
	snapshot := storage.NewSnapshot[[]domain.Order](store, storage.OrdersKey, logger)

	orders, _, err := snapshot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	if orders == nil {
		orders = []domain.Order{}
	}

	return &orderRepository{
		orders:   orders,
		snapshot: snapshot,
		logger:   logger,
	}, nil
}

// Create stores a new order in front of the existing ones
func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(order.ID) >= 0 {
		return fmt.Errorf("failed to create order: duplicate id %s", order.ID)
	}

	r.orders = append([]domain.Order{cloneOrder(*order)}, r.orders...)
	r.persist(ctx)
	return nil
}

// FindByID retrieves an order by ID
func (r *orderRepository) FindByID(_ context.Context, id string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}

	order := cloneOrder(r.orders[idx])
	return &order, nil
}

// List returns a copy of every order, newest placed first
func (r *orderRepository) List(_ context.Context) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]domain.Order, len(r.orders))
	for i := range r.orders {
		orders[i] = cloneOrder(r.orders[i])
	}
	return orders, nil
}

// Update applies mutate to the order and persists the collection. The order
// is left untouched when mutate fails.
func (r *orderRepository) Update(ctx context.Context, id string, mutate func(order *domain.Order) error) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrOrderNotFound
	}

	working := cloneOrder(r.orders[idx])
	if err := mutate(&working); err != nil {
		return nil, err
	}

	r.orders[idx] = working
	r.persist(ctx)

	updated := cloneOrder(working)
	return &updated, nil
}

// Delete removes an order
func (r *orderRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.ErrOrderNotFound
	}

	r.orders = append(r.orders[:idx], r.orders[idx+1:]...)
	r.persist(ctx)
	return nil
}

func (r *orderRepository) indexOf(id string) int {
	for i := range r.orders {
		if r.orders[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *orderRepository) persist(ctx context.Context) {
	if err := r.snapshot.Save(ctx, r.orders); err != nil {
		r.logger.Error("Failed to persist orders",
			zap.Int("count", len(r.orders)),
			zap.Error(err),
		)
	}
}

func cloneOrder(o domain.Order) domain.Order {
	if o.Items != nil {
		items := make([]domain.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}
