package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	service "github.com/warung-alinaldi/pos-backend/internal/services"
	"github.com/warung-alinaldi/pos-backend/internal/utils"
	"github.com/warung-alinaldi/pos-backend/internal/utils/response"
)

type CartHandler struct {
	terminals service.TerminalService
	validator *validator.Validate
}

func NewCartHandler(terminals service.TerminalService) *CartHandler {
	return &CartHandler{terminals: terminals, validator: validator.New()}
}

func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		view, err := h.terminals.Cart(r.Context(), terminal)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to load cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// AddItem adds one unit of a product picked by id.
func (h *CartHandler) AddItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		var req models.AddItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid add item input")
			return
		}

		view, err := h.terminals.AddItem(r.Context(), terminal, req.ProductID)
		if err != nil {
			logger.Warn("Failed to add item", slog.Int64("product_id", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// UpdateQuantity sets a line quantity. A quantity below one removes the line.
func (h *CartHandler) UpdateQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		logger := middleware.LoggerFromContext(r.Context())

		var req models.UpdateQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid update quantity input")
			return
		}

		view, err := h.terminals.UpdateQuantity(r.Context(), terminal, req.ProductID, req.Quantity)
		if err != nil {
			logger.Error("Failed to update quantity", slog.Int64("product_id", req.ProductID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		productID, err := utils.PathInt64(r, "id")
		if err != nil {
			response.Error(w, err)
			return
		}

		view, err := h.terminals.RemoveItem(r.Context(), terminal, productID)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to remove item", slog.Int64("product_id", productID), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		view, err := h.terminals.ClearCart(r.Context(), terminal)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// Scan resolves a code that was already decoded, by a client-side decoder or
// manual entry. An unknown code answers 200 with a notice.
func (h *CartHandler) Scan() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		var req models.ScanRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid scan input")
			return
		}

		result, view, err := h.terminals.Scan(r.Context(), terminal, req.Code)
		if err != nil {
			logger.Error("Failed to resolve scanned code", slog.String("code", req.Code), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, models.KeyEventsResponse{Scans: []models.ScanResult{*result}, Cart: view})
	}
}

// KeyEvents feeds raw keystrokes with client monotonic offsets to the
// terminal decoder.
func (h *CartHandler) KeyEvents() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		var req models.KeyEventsRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid key events input")
			return
		}

		resp, err := h.terminals.KeyEvents(r.Context(), terminal, req.Events)
		if err != nil {
			logger.Error("Failed to process key events", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}
