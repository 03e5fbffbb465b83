package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/warung-alinaldi/pos-backend/internal/models"
)

type OrderService struct {
	mock.Mock
}

func (m *OrderService) SubmitOrder(ctx context.Context, req *models.SubmitOrderRequest) (*models.SubmitOrderResult, error) {
	args := m.Called(ctx, req)
	result, _ := args.Get(0).(*models.SubmitOrderResult)
	return result, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context) (*models.OrderListResponse, error) {
	args := m.Called(ctx)
	resp, _ := args.Get(0).(*models.OrderListResponse)
	return resp, args.Error(1)
}

func (m *OrderService) GetOrderLines(ctx context.Context, id uuid.UUID) ([]models.OrderLine, error) {
	args := m.Called(ctx, id)
	lines, _ := args.Get(0).([]models.OrderLine)
	return lines, args.Error(1)
}
