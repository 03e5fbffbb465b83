package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/warung-alinaldi/pos-backend/internal/errors"
	"github.com/warung-alinaldi/pos-backend/internal/metrics"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	repository "github.com/warung-alinaldi/pos-backend/internal/repositories"
	"github.com/warung-alinaldi/pos-backend/internal/sales"
)

type OrderService interface {
	SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest) (*models.SubmitOrderResult, error)
	ListOrders(ctx context.Context) (*models.OrderListResponse, error)
	GetOrderLines(ctx context.Context, id uuid.UUID) ([]models.OrderLine, error)
}

type orderService struct {
	repo     repository.OrderRepository
	location *time.Location
	now      func() time.Time
}

// NewOrderService buckets sales summaries in loc.
func NewOrderService(repo repository.OrderRepository, loc *time.Location) OrderService {
	if loc == nil {
		loc = time.UTC
	}

	return &orderService{repo: repo, location: loc, now: time.Now}
}

// SubmitOrder recomputes every subtotal and the total from quantities and
// unit prices and refuses a request whose figures disagree. Header and lines
// are written atomically.
func (s *orderService) SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest) (*models.SubmitOrderResult, error) {
	if len(req.Lines) == 0 {
		return nil, errors.EmptyCartCheckoutError()
	}

	if !req.PaymentMethod.Valid() {
		return nil, errors.AddValidationError("payment_method", "must be one of cash, qr")
	}

	orderID := uuid.New()
	lines := make([]models.OrderLine, 0, len(req.Lines))

	var total int64

	for i, line := range req.Lines {
		if line.ProductID <= 0 {
			return nil, errors.AddValidationError(fmt.Sprintf("lines[%d].product_id", i), "must be positive")
		}

		if line.Quantity < 1 {
			return nil, errors.AddValidationError(fmt.Sprintf("lines[%d].quantity", i), "must be at least 1")
		}

		if line.Quantity > models.MaxLineQuantity {
			return nil, errors.AddValidationError(fmt.Sprintf("lines[%d].quantity", i), fmt.Sprintf("must be at most %d", models.MaxLineQuantity))
		}

		if line.UnitPrice < 0 {
			return nil, errors.AddValidationError(fmt.Sprintf("lines[%d].unit_price", i), "must not be negative")
		}

		subtotal, ok := models.CheckedSubtotal(line.Quantity, line.UnitPrice)
		if !ok {
			return nil, errors.AddValidationError(fmt.Sprintf("lines[%d].subtotal", i), "is out of range")
		}

		if line.Subtotal != 0 && line.Subtotal != subtotal {
			return nil, errors.AddValidationError(fmt.Sprintf("lines[%d].subtotal", i), "does not match quantity times unit price")
		}

		lines = append(lines, models.OrderLine{
			ID:        uuid.New(),
			OrderID:   orderID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Subtotal:  subtotal,
		})
		if subtotal > math.MaxInt64-total {
			return nil, errors.AddValidationError("total_amount", "is out of range")
		}

		total += subtotal
	}

	if req.TotalAmount != total {
		return nil, errors.ValidationError("Total amount does not match line items").
			WithDetail(fmt.Sprintf("expected %d, got %d", total, req.TotalAmount))
	}

	order := &models.Order{
		ID:            orderID,
		PaymentMethod: req.PaymentMethod,
		TotalAmount:   total,
		Status:        models.OrderStatusCompleted,
		Lines:         lines,
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, errors.DatabaseError("Failed to create order").WithError(err)
	}

	metrics.RecordOrder(string(order.PaymentMethod), order.TotalAmount)

	return &models.SubmitOrderResult{Success: true, OrderID: order.ID}, nil
}

// ListOrders returns every order with today, week and month totals.
func (s *orderService) ListOrders(ctx context.Context) (*models.OrderListResponse, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return &models.OrderListResponse{
		Orders:  orders,
		Summary: sales.Summarize(orders, s.now().In(s.location)),
	}, nil
}

func (s *orderService) GetOrderLines(ctx context.Context, id uuid.UUID) ([]models.OrderLine, error) {
	exists, err := s.repo.OrderExists(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch order").WithError(err)
	}

	if !exists {
		return nil, errors.NotFoundError("Order not found")
	}

	lines, err := s.repo.GetOrderLines(ctx, id)
	if err != nil {
		return nil, errors.DatabaseError("Failed to fetch order lines").WithError(err)
	}

	return lines, nil
}
