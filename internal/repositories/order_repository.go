package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	"github.com/warung-alinaldi/pos-backend/internal/utils"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	ListOrders(ctx context.Context) ([]models.Order, error)
	GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error)
	OrderExists(ctx context.Context, id uuid.UUID) (bool, error)
}

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

// CreateOrder writes the header and every line in one transaction. A failed
// line rolls the header back.
func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO orders (id, payment_method, total_amount, status, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING created_at
	`

	err = tx.QueryRowContext(dbCtx, query, order.ID, order.PaymentMethod, order.TotalAmount, order.Status).Scan(&order.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, line_no, product_id, quantity, unit_price, subtotal)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	for i, line := range order.Lines {
		_, err := tx.ExecContext(dbCtx, itemQuery, line.ID, order.ID, i+1, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal)
		if err != nil {
			return fmt.Errorf("failed to insert order line %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}

	return nil
}

// ListOrders returns order headers, newest first.
func (r *orderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT id, payment_method, total_amount, status, created_at
		FROM orders
		ORDER BY created_at DESC
	`

	rows, err := r.DB.QueryContext(dbCtx, query)
	if err != nil {
		return nil, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}

	for rows.Next() {
		var order models.Order
		if err := rows.Scan(&order.ID, &order.PaymentMethod, &order.TotalAmount, &order.Status, &order.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, order)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}

	return orders, nil
}

// GetOrderLines returns the lines of an order in entry order, with the
// current product name.
func (r *orderRepository) GetOrderLines(ctx context.Context, orderID uuid.UUID) ([]models.OrderLine, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), oi.quantity, oi.unit_price, oi.subtotal
		FROM order_items oi
		LEFT JOIN products p ON oi.product_id = p.id
		WHERE oi.order_id = $1
		ORDER BY oi.line_no
	`

	rows, err := r.DB.QueryContext(dbCtx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	lines := []models.OrderLine{}

	for rows.Next() {
		var line models.OrderLine
		err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.ProductName, &line.Quantity, &line.UnitPrice, &line.Subtotal)
		if err != nil {
			return nil, fmt.Errorf("scanning order line: %w", err)
		}

		lines = append(lines, line)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order lines: %w", err)
	}

	return lines, nil
}

// OrderExists reports whether an order header with id is stored.
func (r *orderRepository) OrderExists(ctx context.Context, id uuid.UUID) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var exists bool
	if err := r.DB.QueryRowContext(dbCtx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking order: %w", err)
	}

	return exists, nil
}
