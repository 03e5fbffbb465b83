package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *OrderRepository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	args := m.Called(ctx, orderID)
	lines, _ := args.Get(0).([]models.OrderLine)
	return lines, args.Error(1)
}

func (m *OrderRepository) OrderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
