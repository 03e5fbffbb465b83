package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	service "github.com/warung-alinaldi/pos-backend/internal/services"
)

type TerminalService struct {
	mock.Mock
}

func (m *TerminalService) Cart(ctx context.Context, terminalID string) (models.CartView, error) {
	args := m.Called(ctx, terminalID)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *TerminalService) AddItem(ctx context.Context, terminalID string, productID int64) (models.CartView, error) {
	args := m.Called(ctx, terminalID, productID)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *TerminalService) UpdateQuantity(ctx context.Context, terminalID string, productID int64, quantity int) (models.CartView, error) {
	args := m.Called(ctx, terminalID, productID, quantity)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *TerminalService) RemoveItem(ctx context.Context, terminalID string, productID int64) (models.CartView, error) {
	args := m.Called(ctx, terminalID, productID)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *TerminalService) ClearCart(ctx context.Context, terminalID string) (models.CartView, error) {
	args := m.Called(ctx, terminalID)
	return args.Get(0).(models.CartView), args.Error(1)
}

func (m *TerminalService) Scan(ctx context.Context, terminalID, code string) (*models.ScanResult, models.CartView, error) {
	args := m.Called(ctx, terminalID, code)
	result, _ := args.Get(0).(*models.ScanResult)
	return result, args.Get(1).(models.CartView), args.Error(2)
}

func (m *TerminalService) KeyEvents(ctx context.Context, terminalID string, events []models.KeyEventRequest) (*models.KeyEventsResponse, error) {
	args := m.Called(ctx, terminalID, events)
	resp, _ := args.Get(0).(*models.KeyEventsResponse)
	return resp, args.Error(1)
}

func (m *TerminalService) Checkout(ctx context.Context, terminalID string) (service.CheckoutView, error) {
	args := m.Called(ctx, terminalID)
	return args.Get(0).(service.CheckoutView), args.Error(1)
}

func (m *TerminalService) Transition(ctx context.Context, terminalID string, action service.CheckoutAction) (service.CheckoutView, error) {
	args := m.Called(ctx, terminalID, action)
	return args.Get(0).(service.CheckoutView), args.Error(1)
}

func (m *TerminalService) SubmitCheckout(ctx context.Context, terminalID string, method models.PaymentMethod) (service.CheckoutView, error) {
	args := m.Called(ctx, terminalID, method)
	return args.Get(0).(service.CheckoutView), args.Error(1)
}

func (m *TerminalService) Close() {
	m.Called()
}
