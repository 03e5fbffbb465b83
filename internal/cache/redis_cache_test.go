package cache_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warung-alinaldi/pos-backend/internal/cache"
	"github.com/warung-alinaldi/pos-backend/internal/config"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

func setup(t *testing.T) (cache.Cache, redismock.ClientMock, *config.CacheConfig) {
	t.Helper()

	client, mock := redismock.NewClientMock()
	cfg := &config.CacheConfig{DefaultTTL: 10 * time.Minute}

	return cache.NewRedisCache(client, cfg), mock, cfg
}

func TestGet(t *testing.T) {
	categories := []models.Category{{ID: 1, Name: "Sembako"}, {ID: 2, Name: "Minuman"}}
	payload, err := json.Marshal(categories)
	require.NoError(t, err)

	t.Run("Success - Hit", func(t *testing.T) {
		// Arrange
		c, mock, _ := setup(t)
		mock.ExpectGet(cache.CategoriesKey).SetVal(string(payload))

		// Act
		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoriesKey, &got)

		// Assert
		require.NoError(t, err)
		assert.True(t, found)
		assert.Equal(t, categories, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Miss", func(t *testing.T) {
		c, mock, _ := setup(t)
		mock.ExpectGet(cache.CategoriesKey).SetErr(redis.Nil)

		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoriesKey, &got)

		require.NoError(t, err)
		assert.False(t, found)
		assert.Empty(t, got)
	})

	t.Run("Failure - Redis error", func(t *testing.T) {
		c, mock, _ := setup(t)
		redisErr := errors.New("redis connection error")
		mock.ExpectGet(cache.CategoriesKey).SetErr(redisErr)

		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoriesKey, &got)

		assert.False(t, found)
		assert.ErrorIs(t, err, redisErr)
		assert.ErrorContains(t, err, "failed to get key catalog:categories from redis")
	})

	t.Run("Failure - Corrupt value", func(t *testing.T) {
		c, mock, _ := setup(t)
		mock.ExpectGet(cache.CategoriesKey).SetVal(`[{"id":"one"}]`)

		var got []models.Category
		found, err := c.Get(t.Context(), cache.CategoriesKey, &got)

		assert.False(t, found)
		var jsonErr *json.UnmarshalTypeError
		assert.ErrorAs(t, err, &jsonErr)
	})
}

func TestSet(t *testing.T) {
	products := []models.Product{{ID: 1, Name: "Indomie Goreng", Price: 3500, ScanCodes: models.ScanCodes{"8991002101234"}}}
	payload, err := json.Marshal(products)
	require.NoError(t, err)

	t.Run("Success - Explicit TTL", func(t *testing.T) {
		c, mock, _ := setup(t)
		mock.ExpectSet(cache.ProductsKey, payload, time.Minute).SetVal("OK")

		require.NoError(t, c.Set(t.Context(), cache.ProductsKey, products, time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Success - Non-positive TTL uses the default", func(t *testing.T) {
		c, mock, cfg := setup(t)
		mock.ExpectSet(cache.ProductsKey, payload, cfg.DefaultTTL).SetVal("OK")
		mock.ExpectSet(cache.ProductsKey, payload, cfg.DefaultTTL).SetVal("OK")

		require.NoError(t, c.Set(t.Context(), cache.ProductsKey, products, 0))
		require.NoError(t, c.Set(t.Context(), cache.ProductsKey, products, -time.Second))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Unmarshallable value", func(t *testing.T) {
		c, mock, _ := setup(t)

		err := c.Set(t.Context(), cache.ProductsKey, make(chan int), time.Minute)

		var jsonErr *json.UnsupportedTypeError
		assert.ErrorAs(t, err, &jsonErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Failure - Redis error", func(t *testing.T) {
		c, mock, _ := setup(t)
		redisErr := errors.New("redis SET failed")
		mock.ExpectSet(cache.ProductsKey, payload, time.Minute).SetErr(redisErr)

		err := c.Set(t.Context(), cache.ProductsKey, products, time.Minute)

		assert.ErrorIs(t, err, redisErr)
		assert.ErrorContains(t, err, "failed to set key catalog:products in redis")
	})
}

func TestKey(t *testing.T) {
	assert.Equal(t, "cart:kasir-1", cache.Key(cache.CartKeyPrefix, "kasir-1"))
	assert.Equal(t, "catalog:products", cache.ProductsKey)
	assert.Equal(t, "catalog:categories", cache.CategoriesKey)
	assert.Equal(t, ":", cache.Key("", ""))
}
