package models

import (
	"time"

	"github.com/google/uuid"
)

type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "cash"
	PaymentMethodQR   PaymentMethod = "qr"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodQR
}

type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
)

type OrderLine struct {
	ID          uuid.UUID `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	ProductID   int64     `json:"product_id"`
	ProductName string    `json:"product_name,omitempty"`
	Quantity    int       `json:"quantity"`
	UnitPrice   int64     `json:"unit_price"`
	Subtotal    int64     `json:"subtotal"`
}

type Order struct {
	ID            uuid.UUID     `json:"id"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	TotalAmount   int64         `json:"total_amount"`
	Status        OrderStatus   `json:"status"`
	Lines         []OrderLine   `json:"lines,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
}

type OrderLineRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"required,min=1,lte=2147483647"`
	UnitPrice int64 `json:"unit_price" validate:"gte=0"`
	Subtotal  int64 `json:"subtotal,omitempty" validate:"gte=0"`
}

type SubmitOrderRequest struct {
	Lines         []OrderLineRequest `json:"lines" validate:"required,min=1,dive"`
	TotalAmount   int64              `json:"total_amount" validate:"gte=0"`
	PaymentMethod PaymentMethod      `json:"payment_method" validate:"required,oneof=cash qr"`
}

type SubmitOrderResult struct {
	Success bool      `json:"success"`
	OrderID uuid.UUID `json:"order_id"`
}

type SubmitCheckoutRequest struct {
	PaymentMethod PaymentMethod `json:"payment_method" validate:"required,oneof=cash qr"`
}

type OrderListResponse struct {
	Orders  []Order      `json:"orders"`
	Summary SalesSummary `json:"summary"`
}
