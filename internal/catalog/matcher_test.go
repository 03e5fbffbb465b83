package catalog_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warung-alinaldi/pos-backend/internal/catalog"
	appErrors "github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

func TestMatch(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "Indomie Goreng", Price: 3500, ScanCodes: models.ScanCodes{"8991002101234", "idm-01"}},
		{ID: 2, Name: "Teh Pucuk", Price: 4000, ScanCodes: models.ParseScanCodes("ABC-1")},
		{ID: 3, Name: "Teh Pucuk Promo", Price: 3000, ScanCodes: models.ScanCodes{"abc-1"}},
		{ID: 4, Name: "Gula Curah", Price: 15000},
	}

	t.Run("Success - Exact code", func(t *testing.T) {
		product, err := catalog.Match(products, "8991002101234")
		require.NoError(t, err)
		assert.Equal(t, int64(1), product.ID)
	})

	t.Run("Success - Case and whitespace insensitive", func(t *testing.T) {
		product, err := catalog.Match(products, " ab c-1 ")
		require.NoError(t, err)
		assert.Equal(t, int64(2), product.ID)
	})

	t.Run("Success - Stored codes are normalized too", func(t *testing.T) {
		raw := []models.Product{{ID: 7, Name: "Kopi", ScanCodes: models.ScanCodes{" KP 7 "}}}

		product, err := catalog.Match(raw, "kp7")
		require.NoError(t, err)
		assert.Equal(t, int64(7), product.ID)
	})

	t.Run("Success - First product in list order wins", func(t *testing.T) {
		product, err := catalog.Match(products, "ABC-1")
		require.NoError(t, err)
		assert.Equal(t, "Teh Pucuk", product.Name)
	})

	t.Run("Success - Result is a copy", func(t *testing.T) {
		product, err := catalog.Match(products, "idm-01")
		require.NoError(t, err)

		product.Name = "changed"
		assert.Equal(t, "Indomie Goreng", products[0].Name)
	})

	t.Run("Failure - Unknown code", func(t *testing.T) {
		product, err := catalog.Match(products, "nope")
		assert.Nil(t, product)
		assert.ErrorIs(t, err, appErrors.ErrProductNotFound)
	})

	t.Run("Failure - Blank code never matches", func(t *testing.T) {
		_, err := catalog.Match(products, "   ")
		assert.ErrorIs(t, err, appErrors.ErrProductNotFound)
	})

	t.Run("Failure - Empty catalog", func(t *testing.T) {
		_, err := catalog.Match(nil, "8991002101234")
		assert.ErrorIs(t, err, appErrors.ErrProductNotFound)
	})
}
