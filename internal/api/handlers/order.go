package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/warung-alinaldi/pos-backend/internal/api/middleware"
	"github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	service "github.com/warung-alinaldi/pos-backend/internal/services"
	"github.com/warung-alinaldi/pos-backend/internal/utils"
	"github.com/warung-alinaldi/pos-backend/internal/utils/response"
)

type OrderHandler struct {
	orderService service.OrderService
	validator    *validator.Validate
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService, validator: validator.New()}
}

// SubmitOrder records a sale sent directly by a client, bypassing the
// server-side checkout flow.
func (h *OrderHandler) SubmitOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		var req models.SubmitOrderRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid submit order input")
			return
		}

		result, err := h.orderService.SubmitOrder(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to submit order", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Order submitted", slog.String("order_id", result.OrderID.String()))
		response.Success(w, http.StatusCreated, result)
	}
}

// ListOrders returns the order history with sales totals.
func (h *OrderHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		resp, err := h.orderService.ListOrders(r.Context())
		if err != nil {
			logger.Error("Failed to fetch orders", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, resp)
	}
}

func (h *OrderHandler) GetOrderLines() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		id, err := uuid.Parse(r.PathValue("id"))
		if err != nil {
			logger.Warn("Invalid order id", slog.String("id", r.PathValue("id")))
			response.Error(w, errors.BadRequestError("Invalid order ID format"))
			return
		}

		lines, err := h.orderService.GetOrderLines(r.Context(), id)
		if err != nil {
			logger.Warn("Failed to fetch order lines", slog.String("order_id", id.String()), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, lines)
	}
}
