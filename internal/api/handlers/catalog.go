package handlers

import (
	"log/slog"
	"net/http"

	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	service "github.com/warung-alinaldi/pos-backend/internal/services"
	"github.com/warung-alinaldi/pos-backend/internal/utils"
	"github.com/warung-alinaldi/pos-backend/internal/utils/response"
)

type CatalogHandler struct {
	catalogService service.CatalogService
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListProducts returns the full catalog ordered by name.
func (h *CatalogHandler) ListProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		products, err := h.catalogService.ListProducts(r.Context())
		if err != nil {
			logger.Error("Failed to fetch products", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, products)
	}
}

func (h *CatalogHandler) ListCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		categories, err := h.catalogService.ListCategories(r.Context())
		if err != nil {
			logger.Error("Failed to fetch categories", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, categories)
	}
}

func (h *CatalogHandler) GetProduct() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := utils.PathInt64(r, "id")
		if err != nil {
			logger.Warn("Invalid product id", slog.String("id", r.PathValue("id")))
			response.Error(w, err)
			return
		}

		product, err := h.catalogService.GetProduct(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to fetch product", slog.Int64("product_id", id), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, product)
	}
}
