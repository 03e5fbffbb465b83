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

type CheckoutHandler struct {
	terminals service.TerminalService
	validator *validator.Validate
}

func NewCheckoutHandler(terminals service.TerminalService) *CheckoutHandler {
	return &CheckoutHandler{terminals: terminals, validator: validator.New()}
}

func (h *CheckoutHandler) GetCheckout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		view, err := h.terminals.Checkout(r.Context(), terminal)
		if err != nil {
			middleware.LoggerFromContext(r.Context()).Error("Failed to load checkout", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, view)
	}
}

// Transition applies one state machine step that needs no request body.
func (h *CheckoutHandler) Transition(action service.CheckoutAction) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		view, err := h.terminals.Transition(r.Context(), terminal, action)
		if err != nil {
			logger.Warn("Checkout transition refused",
				slog.String("action", string(action)),
				slog.String("state", string(view.State)),
				slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout transition", slog.String("action", string(action)), slog.String("state", string(view.State)))
		response.Success(w, http.StatusOK, view)
	}
}

func (h *CheckoutHandler) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := middleware.LoggerFromContext(r.Context())

		terminal, ok := terminalID(w, r)
		if !ok {
			return
		}

		var req models.SubmitCheckoutRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid checkout submit input")
			return
		}

		view, err := h.terminals.SubmitCheckout(r.Context(), terminal, req.PaymentMethod)
		if err != nil {
			logger.Error("Checkout submission failed", slog.String("state", string(view.State)), slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Checkout completed", slog.String("order_id", view.OrderID.String()))
		response.Success(w, http.StatusCreated, view)
	}
}
