// Package catalog resolves scanned codes against the product list.
package catalog

import (
	appErrors "github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

// Match returns the first product, in list order, whose scan codes contain
// code after normalization.
func Match(products []models.Product, code string) (*models.Product, error) {
	normalized := models.NormalizeCode(code)
	if normalized == "" {
		return nil, appErrors.ProductNotFoundError(code)
	}

	for i := range products {
		for _, candidate := range products[i].ScanCodes {
			if models.NormalizeCode(candidate) == normalized {
				product := products[i]
				return &product, nil
			}
		}
	}

	return nil, appErrors.ProductNotFoundError(code)
}
