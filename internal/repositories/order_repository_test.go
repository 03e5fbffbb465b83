package repository_test

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	repository "github.com/warung-alinaldi/pos-backend/internal/repositories"
)

func newOrder() *models.Order {
	orderID := uuid.New()

	return &models.Order{
		ID:            orderID,
		PaymentMethod: models.PaymentMethodCash,
		TotalAmount:   25000,
		Status:        models.OrderStatusCompleted,
		Lines: []models.OrderLine{
			{ID: uuid.New(), OrderID: orderID, ProductID: 1, Quantity: 2, UnitPrice: 10000, Subtotal: 20000},
			{ID: uuid.New(), OrderID: orderID, ProductID: 2, Quantity: 1, UnitPrice: 5000, Subtotal: 5000},
		},
	}
}

func TestOrderRepository(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	defer db.Close()

	repo := repository.NewOrderRepository(db)
	ctx := t.Context()

	insertOrderSQL := regexp.QuoteMeta(`INSERT INTO orders (id, payment_method, total_amount, status, created_at)`)
	insertLineSQL := regexp.QuoteMeta(`INSERT INTO order_items (id, order_id, line_no, product_id, quantity, unit_price, subtotal)`)

	t.Run("CreateOrder", func(t *testing.T) {
		t.Run("Success - Header and lines committed together", func(t *testing.T) {
			// Arrange
			order := newOrder()
			createdAt := time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

			mock.ExpectBegin()
			mock.ExpectQuery(insertOrderSQL).
				WithArgs(order.ID, order.PaymentMethod, order.TotalAmount, order.Status).
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(createdAt))
			for i, line := range order.Lines {
				mock.ExpectExec(insertLineSQL).
					WithArgs(line.ID, order.ID, i+1, line.ProductID, line.Quantity, line.UnitPrice, line.Subtotal).
					WillReturnResult(sqlmock.NewResult(0, 1))
			}
			mock.ExpectCommit()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, createdAt, order.CreatedAt)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Line insert rolls back the header", func(t *testing.T) {
			// Arrange
			order := newOrder()
			lineErr := errors.New("violates foreign key constraint")

			mock.ExpectBegin()
			mock.ExpectQuery(insertOrderSQL).
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
			mock.ExpectExec(insertLineSQL).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectExec(insertLineSQL).WillReturnError(lineErr)
			mock.ExpectRollback()

			// Act
			err := repo.CreateOrder(ctx, order)

			// Assert
			require.Error(t, err)
			assert.ErrorIs(t, err, lineErr)
			assert.ErrorContains(t, err, "failed to insert order line 2")
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Header insert", func(t *testing.T) {
			mock.ExpectBegin()
			mock.ExpectQuery(insertOrderSQL).WillReturnError(errors.New("duplicate key"))
			mock.ExpectRollback()

			err := repo.CreateOrder(ctx, newOrder())

			assert.ErrorContains(t, err, "failed to insert order")
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Begin", func(t *testing.T) {
			mock.ExpectBegin().WillReturnError(errors.New("too many connections"))

			err := repo.CreateOrder(ctx, newOrder())

			assert.ErrorContains(t, err, "failed to begin transaction")
		})

		t.Run("Failure - Commit", func(t *testing.T) {
			order := newOrder()
			order.Lines = order.Lines[:1]

			mock.ExpectBegin()
			mock.ExpectQuery(insertOrderSQL).
				WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
			mock.ExpectExec(insertLineSQL).WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit().WillReturnError(errors.New("serialization failure"))

			err := repo.CreateOrder(ctx, order)

			assert.ErrorContains(t, err, "failed to commit order")
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	})

	t.Run("ListOrders", func(t *testing.T) {
		listSQL := regexp.QuoteMeta(`SELECT id, payment_method, total_amount, status, created_at FROM orders ORDER BY created_at DESC`)

		t.Run("Success", func(t *testing.T) {
			id := uuid.New()
			now := time.Now()
			mock.ExpectQuery(listSQL).
				WillReturnRows(sqlmock.NewRows([]string{"id", "payment_method", "total_amount", "status", "created_at"}).
					AddRow(id.String(), "qr", 18000, "completed", now))

			orders, err := repo.ListOrders(ctx)

			require.NoError(t, err)
			require.Len(t, orders, 1)
			assert.Equal(t, id, orders[0].ID)
			assert.Equal(t, models.PaymentMethodQR, orders[0].PaymentMethod)
			assert.Equal(t, int64(18000), orders[0].TotalAmount)
			assert.Equal(t, models.OrderStatusCompleted, orders[0].Status)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Query error", func(t *testing.T) {
			mock.ExpectQuery(listSQL).WillReturnError(errors.New("db down"))

			orders, err := repo.ListOrders(ctx)

			assert.Nil(t, orders)
			assert.ErrorContains(t, err, "querying orders")
		})
	})

	t.Run("GetOrderLines", func(t *testing.T) {
		linesSQL := regexp.QuoteMeta(`SELECT oi.id, oi.order_id, oi.product_id, COALESCE(p.name, ''), oi.quantity, oi.unit_price, oi.subtotal`)

		t.Run("Success", func(t *testing.T) {
			orderID := uuid.New()
			lineID := uuid.New()
			mock.ExpectQuery(linesSQL).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "quantity", "unit_price", "subtotal"}).
					AddRow(lineID.String(), orderID.String(), 1, "Beras 1kg", 2, 10000, 20000))

			lines, err := repo.GetOrderLines(ctx, orderID)

			require.NoError(t, err)
			assert.Equal(t, []models.OrderLine{{
				ID: lineID, OrderID: orderID, ProductID: 1, ProductName: "Beras 1kg",
				Quantity: 2, UnitPrice: 10000, Subtotal: 20000,
			}}, lines)
			assert.NoError(t, mock.ExpectationsWereMet())
		})

		t.Run("Failure - Scan error", func(t *testing.T) {
			orderID := uuid.New()
			mock.ExpectQuery(linesSQL).
				WithArgs(orderID).
				WillReturnRows(sqlmock.NewRows([]string{"id", "order_id", "product_id", "name", "quantity", "unit_price", "subtotal"}).
					AddRow("not-a-uuid", orderID.String(), 1, "Beras 1kg", 2, 10000, 20000))

			lines, err := repo.GetOrderLines(ctx, orderID)

			assert.Nil(t, lines)
			assert.ErrorContains(t, err, "scanning order line")
		})
	})

	t.Run("OrderExists", func(t *testing.T) {
		id := uuid.New()
		mock.ExpectQuery(regexp.QuoteMeta(`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`)).
			WithArgs(id).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		exists, err := repo.OrderExists(ctx, id)

		require.NoError(t, err)
		assert.True(t, exists)
	})
}
