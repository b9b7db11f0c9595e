package repository

import (
	"context"
	"errors"
	"testing"

	"avin-home/internal/domain"
	"avin-home/internal/storage"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func cartLine(id string, price int64, stock int) domain.CartItem {
	return domain.CartItem{
		ID:    id,
		Name:  "Item " + id,
		Price: decimal.NewFromInt(price),
		Stock: stock,
	}
}

func TestCartRepositoryUnknownCartIsEmpty(t *testing.T) {
	repo := NewCartRepository(storage.NewMemoryStore(), zap.NewNop())

	cart, err := repo.Get(context.Background(), "new-cart")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !cart.IsEmpty() {
		t.Errorf("Expected empty cart, got %d items", len(cart.Items))
	}
}

func TestCartRepositoryUpdatePersistsPerCart(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewCartRepository(store, zap.NewNop())

	_, err := repo.Update(ctx, "a", func(cart *domain.Cart) error {
		return cart.Add(cartLine("p1", 100_000, 5), 2)
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if _, err := store.Get(ctx, storage.CartKey("a")); err != nil {
		t.Errorf("Expected cart snapshot under %s: %v", storage.CartKey("a"), err)
	}
	if _, err := store.Get(ctx, storage.CartKey("b")); !errors.Is(err, storage.ErrKeyNotFound) {
		t.Errorf("Expected no snapshot for an untouched cart, got %v", err)
	}

	reloaded := NewCartRepository(store, zap.NewNop())
	cart, err := reloaded.Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	item, ok := cart.Item("p1")
	if !ok || item.Quantity != 2 {
		t.Errorf("Expected p1 with quantity 2 after reload, got %+v (found=%v)", item, ok)
	}
}

func TestCartRepositoryFailedMutationLeavesCart(t *testing.T) {
	ctx := context.Background()
	repo := NewCartRepository(storage.NewMemoryStore(), zap.NewNop())

	_, _ = repo.Update(ctx, "a", func(cart *domain.Cart) error {
		return cart.Add(cartLine("p1", 100_000, 5), 1)
	})

	_, err := repo.Update(ctx, "a", func(cart *domain.Cart) error {
		cart.Clear()
		return domain.ErrStockExceeded
	})
	if !errors.Is(err, domain.ErrStockExceeded) {
		t.Fatalf("Expected mutation error, got %v", err)
	}

	cart, _ := repo.Get(ctx, "a")
	if cart.IsEmpty() {
		t.Error("Failed mutation must not change the stored cart")
	}
}

func TestCartRepositoryClear(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	repo := NewCartRepository(store, zap.NewNop())

	_, _ = repo.Update(ctx, "a", func(cart *domain.Cart) error {
		return cart.Add(cartLine("p1", 100_000, 5), 3)
	})
	if err := repo.Clear(ctx, "a"); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	cart, _ := NewCartRepository(store, zap.NewNop()).Get(ctx, "a")
	if !cart.IsEmpty() {
		t.Error("Expected cleared cart to reload empty")
	}
}

func TestCartRepositoryMalformedSnapshotLoadsEmpty(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	_ = store.Set(ctx, storage.CartKey("a"), []byte("null"))

	cart, err := NewCartRepository(store, zap.NewNop()).Get(ctx, "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if cart.Items == nil || !cart.IsEmpty() {
		t.Errorf("Expected an empty, non-nil item list, got %#v", cart.Items)
	}
}
