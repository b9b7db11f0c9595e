// Package storage is the durability boundary of the storefront. Each store
// mirrors its whole collection as one JSON value under a fixed key.
package storage

import (
	"context"
	"errors"
)

var ErrKeyNotFound = errors.New("key not found")

// Snapshot keys
const (
	ProductsKey   = "avin_products"
	OrdersKey     = "avin_orders"
	CartKeyPrefix = "avin_cart:"
)

// CartKey is the snapshot key of one cart
func CartKey(cartID string) string {
	return CartKeyPrefix + cartID
}

// KeyValueStore defines the interface for snapshot persistence
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
