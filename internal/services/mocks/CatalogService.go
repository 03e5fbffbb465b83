package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

type CatalogService struct {
	mock.Mock
}

func (m *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]models.Product)
	return products, args.Error(1)
}

func (m *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	args := m.Called(ctx)
	categories, _ := args.Get(0).([]models.Category)
	return categories, args.Error(1)
}

func (m *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	args := m.Called(ctx, id)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}

func (m *CatalogService) Resolve(ctx context.Context, code string) (*models.Product, error) {
	args := m.Called(ctx, code)
	product, _ := args.Get(0).(*models.Product)
	return product, args.Error(1)
}
