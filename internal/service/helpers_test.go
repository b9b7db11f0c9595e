package service

import (
	"context"
	"testing"
	"time"

	"avin-home/internal/domain"
	"avin-home/internal/repository"
	"avin-home/internal/storage"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEnv struct {
	store    storage.KeyValueStore
	products repository.ProductRepository
	orders   repository.OrderRepository
	carts    repository.CartRepository

	productService  ProductService
	cartService     CartService
	orderService    OrderService
	checkoutService *checkoutService

	scheduled []func()
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	env := &testEnv{store: storage.NewMemoryStore()}

	var err error
	env.products, err = repository.NewProductRepository(ctx, env.store, logger)
	require.NoError(t, err)
	env.orders, err = repository.NewOrderRepository(ctx, env.store, logger)
	require.NoError(t, err)
	env.carts = repository.NewCartRepository(env.store, logger)

	env.productService = NewProductService(env.products, repository.NewCategoryRepository(), logger)
	env.cartService = NewCartService(env.carts, env.products, logger)
	env.orderService = NewOrderService(env.orders, env.products, logger)

	checkout := NewCheckoutService(env.cartService, env.orderService, 2*time.Second, logger).(*checkoutService)
	checkout.afterFunc = func(_ time.Duration, f func()) {
		env.scheduled = append(env.scheduled, f)
	}
	env.checkoutService = checkout

	return env
}

// runScheduled fires every pending delayed task
func (e *testEnv) runScheduled() {
	tasks := e.scheduled
	e.scheduled = nil
	for _, f := range tasks {
		f()
	}
}

func (e *testEnv) addProduct(t *testing.T, id string, price int64, stock int) *domain.Product {
	t.Helper()
	product := &domain.Product{
		ID:       id,
		Name:     "Product " + id,
		Category: "living-room",
		Price:    decimal.NewFromInt(price),
		Stock:    stock,
		Status:   domain.ProductStatusActive,
	}
	require.NoError(t, e.products.Create(context.Background(), product))
	return product
}

func validShipping() domain.ShippingInfo {
	return domain.ShippingInfo{
		FullName:   "Siti Rahma",
		Email:      "siti@example.com",
		Phone:      "+62 812-3456-7890",
		Address:    "Jl. Melati No. 5",
		City:       "Bandung",
		Province:   "Jawa Barat",
		PostalCode: "40115",
	}
}

func idr(v int64) decimal.Decimal {
	return decimal.NewFromInt(v)
}
