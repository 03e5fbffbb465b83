package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/cache"
	"github.com/warung-alinaldi/pos-backend/internal/catalog"
	"github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	repository "github.com/warung-alinaldi/pos-backend/internal/repositories"
)

type CatalogService interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
	Resolve(ctx context.Context, code string) (*models.Product, error)
}

type catalogService struct {
	repo  repository.ProductRepository
	cache cache.Cache
	ttl   time.Duration
}

// NewCatalogService reads the catalog through c when it is non-nil.
func NewCatalogService(repo repository.ProductRepository, c cache.Cache, ttl time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: c, ttl: ttl}
}

func (s *catalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if s.fromCache(ctx, cache.ProductsKey, &products) {
		return products, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch products").WithError(err)
	}

	s.toCache(ctx, cache.ProductsKey, products)

	return products, nil
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if s.fromCache(ctx, cache.CategoriesKey, &categories) {
		return categories, nil
	}

	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch categories").WithError(err)
	}

	s.toCache(ctx, cache.CategoriesKey, categories)

	return categories, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].ID == id {
			return &products[i], nil
		}
	}

	return nil, errors.NotFoundError("Product not found")
}

// Resolve matches a scanned code against the catalog.
func (s *catalogService) Resolve(ctx context.Context, code string) (*models.Product, error) {
	products, err := s.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	return catalog.Match(products, code)
}

func (s *catalogService) fromCache(ctx context.Context, key string, dest any) bool {
	if s.cache == nil {
		return false
	}

	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Catalog cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return found
}

func (s *catalogService) toCache(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Catalog cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}
