package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

const (
	CatalogKeyPrefix = "catalog"
	CartKeyPrefix    = "cart"
)

const (
	ProductsKey   = CatalogKeyPrefix + ":products"
	CategoriesKey = CatalogKeyPrefix + ":categories"
)
