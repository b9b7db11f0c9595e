package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"avin-home/internal/domain"
	"avin-home/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRepository defines the interface for catalog data access
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	Count(ctx context.Context) (int, error)
}

type productRepository struct {
	mu       sync.RWMutex
	products []domain.Product
	snapshot *storage.Snapshot[[]domain.Product]
	logger   *zap.Logger
	now      func() time.Time
}

// NewProductRepository loads the catalog snapshot and returns a repository over it
func NewProductRepository(ctx context.Context, store storage.KeyValueStore, logger *zap.Logger) (ProductRepository, error) {
	snapshot := storage.NewSnapshot[[]domain.Product](store, storage.ProductsKey, logger)

	products, _, err := snapshot.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}

	return &productRepository{
		products: products,
		snapshot: snapshot,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Create stores a new product. An empty ID is filled in.
func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = newProductID()
	}
	for i := range r.products {
		if r.products[i].ID == product.ID {
			return fmt.Errorf("failed to create product: duplicate id %s", product.ID)
		}
	}

	now := r.now()
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if product.Reviews == nil {
		product.Reviews = []domain.Review{}
	}

	r.products = append(r.products, cloneProduct(*product))
	r.persist(ctx)
	return nil
}

// Update merges patch into the product with the given id
func (r *productRepository) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrProductNotFound
	}

	product := &r.products[idx]
	patch.Apply(product)
	product.UpdatedAt = r.now()

	r.persist(ctx)

	updated := cloneProduct(*product)
	return &updated, nil
}

// Delete removes a product from the catalog
func (r *productRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return domain.ErrProductNotFound
	}

	r.products = append(r.products[:idx], r.products[idx+1:]...)
	r.persist(ctx)
	return nil
}

// FindByID retrieves a product by ID
func (r *productRepository) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(id)
	if idx < 0 {
		return nil, domain.ErrProductNotFound
	}

	product := cloneProduct(r.products[idx])
	return &product, nil
}

// List returns a copy of the whole catalog in insertion order
func (r *productRepository) List(_ context.Context) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]domain.Product, len(r.products))
	for i := range r.products {
		products[i] = cloneProduct(r.products[i])
	}
	return products, nil
}

func (r *productRepository) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.products), nil
}

func (r *productRepository) indexOf(id string) int {
	for i := range r.products {
		if r.products[i].ID == id {
			return i
		}
	}
	return -1
}

// persist writes the catalog snapshot. Callers hold the write lock.
func (r *productRepository) persist(ctx context.Context) {
	if err := r.snapshot.Save(ctx, r.products); err != nil {
		r.logger.Error("Failed to persist products", zap.Error(err))
	}
}

func cloneProduct(p domain.Product) domain.Product {
	if p.DiscountPrice != nil {
		d := *p.DiscountPrice
		p.DiscountPrice = &d
	}
	if p.Reviews != nil {
		reviews := make([]domain.Review, len(p.Reviews))
		copy(reviews, p.Reviews)
		p.Reviews = reviews
	}
	return p
}

func newProductID() string {
	return uuid.NewString()
}
