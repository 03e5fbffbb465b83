package handlers_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/warung-alinaldi/pos-backend/internal/api/handlers"
	appErrors "github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	"github.com/warung-alinaldi/pos-backend/internal/services/mocks"
	"github.com/warung-alinaldi/pos-backend/internal/testutils"
)

func TestListProducts(t *testing.T) {
	t.Run("Success - Catalog returned", func(t *testing.T) {
		// Arrange
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)
		products := []models.Product{
			{ID: 1, Name: "Indomie Goreng", Price: 3500, Stock: 40, ScanCodes: models.ScanCodes{"8991002101234"}},
			{ID: 2, Name: "Teh Pucuk", Price: 4000, Stock: 12, ScanCodes: models.ScanCodes{"tp-350"}},
		}
		mockCatalog.On("ListProducts", mock.Anything).Return(products, nil).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/products", nil, "", nil)
		rr := httptest.NewRecorder()

		// Act
		handler.ListProducts().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var got []models.Product
		resp := testutils.DecodeResponse(t, rr, &got)
		assert.True(t, resp.Success)
		assert.Equal(t, products, got)
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Database error", func(t *testing.T) {
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)
		mockCatalog.On("ListProducts", mock.Anything).
			Return(nil, appErrors.DatabaseError("Failed to fetch products").WithError(errors.New("conn refused"))).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/products", nil, "", nil)
		rr := httptest.NewRecorder()

		handler.ListProducts().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := testutils.DecodeResponse(t, rr, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, appErrors.ErrCodeDatabaseError, resp.Error.Code)
		mockCatalog.AssertExpectations(t)
	})
}

func TestListCategories(t *testing.T) {
	t.Run("Success - Categories returned", func(t *testing.T) {
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)
		categories := []models.Category{{ID: 1, Name: "Minuman"}, {ID: 2, Name: "Sembako"}}
		mockCatalog.On("ListCategories", mock.Anything).Return(categories, nil).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/categories", nil, "", nil)
		rr := httptest.NewRecorder()

		handler.ListCategories().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got []models.Category
		testutils.DecodeResponse(t, rr, &got)
		assert.Equal(t, categories, got)
	})

	t.Run("Failure - Unexpected error is masked", func(t *testing.T) {
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)
		mockCatalog.On("ListCategories", mock.Anything).Return(nil, errors.New("boom")).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/categories", nil, "", nil)
		rr := httptest.NewRecorder()

		handler.ListCategories().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		resp := testutils.DecodeResponse(t, rr, nil)
		assert.Equal(t, "An unexpected error occurred", resp.Error.Message)
	})
}

func TestGetProduct(t *testing.T) {
	t.Run("Success - Product found", func(t *testing.T) {
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)
		product := &models.Product{ID: 7, Name: "Aqua 600ml", Price: 3500, ScanCodes: models.ScanCodes{"8886008101053"}}
		mockCatalog.On("GetProduct", mock.Anything, int64(7)).Return(product, nil).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/products/7", nil, "", map[string]string{"id": "7"})
		rr := httptest.NewRecorder()

		handler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		var got models.Product
		testutils.DecodeResponse(t, rr, &got)
		assert.Equal(t, *product, got)
		mockCatalog.AssertExpectations(t)
	})

	t.Run("Failure - Not found", func(t *testing.T) {
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)
		mockCatalog.On("GetProduct", mock.Anything, int64(404)).Return(nil, appErrors.NotFoundError("Product not found")).Once()

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/products/404", nil, "", map[string]string{"id": "404"})
		rr := httptest.NewRecorder()

		handler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Invalid id", func(t *testing.T) {
		mockCatalog := new(mocks.CatalogService)
		handler := handlers.NewCatalogHandler(mockCatalog)

		req := testutils.CreateTestRequest(http.MethodGet, "/api/v1/products/0", nil, "", map[string]string{"id": "0"})
		rr := httptest.NewRecorder()

		handler.GetProduct().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockCatalog.AssertNotCalled(t, "GetProduct", mock.Anything, mock.Anything)
	})
}
