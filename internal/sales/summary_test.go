package sales_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/warung-alinaldi/pos-backend/internal/models"
	"github.com/warung-alinaldi/pos-backend/internal/sales"
)

func order(total int64, at time.Time) models.Order {
	return models.Order{TotalAmount: total, CreatedAt: at, Status: models.OrderStatusCompleted}
}

func TestSummarize(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	now := time.Date(2026, time.October, 18, 15, 30, 0, 0, jakarta)

	t.Run("Empty list", func(t *testing.T) {
		assert.Equal(t, models.SalesSummary{}, sales.Summarize(nil, now))
	})

	t.Run("Order today counts everywhere", func(t *testing.T) {
		summary := sales.Summarize([]models.Order{order(10000, now.Add(-time.Hour))}, now)

		assert.Equal(t, models.SalesSummary{Today: 10000, ThisWeek: 10000, ThisMonth: 10000}, summary)
	})

	t.Run("Week boundary is compared by day", func(t *testing.T) {
		orders := []models.Order{
			// seven days ago, early morning: same day as now-7d
			order(1000, time.Date(2026, time.October, 11, 0, 5, 0, 0, jakarta)),
			// eight days ago, late evening
			order(2000, time.Date(2026, time.October, 10, 23, 59, 0, 0, jakarta)),
		}

		summary := sales.Summarize(orders, now)

		assert.Equal(t, int64(0), summary.Today)
		assert.Equal(t, int64(1000), summary.ThisWeek)
		assert.Equal(t, int64(3000), summary.ThisMonth)
	})

	t.Run("Previous month and year excluded from month", func(t *testing.T) {
		orders := []models.Order{
			order(500, time.Date(2026, time.September, 30, 12, 0, 0, 0, jakarta)),
			order(700, time.Date(2025, time.October, 18, 12, 0, 0, 0, jakarta)),
		}

		summary := sales.Summarize(orders, now)

		assert.Equal(t, models.SalesSummary{}, summary)
	})

	t.Run("UTC timestamps are bucketed in the local day", func(t *testing.T) {
		// 2026-10-17 18:00 UTC is 2026-10-18 01:00 WIB
		utc := time.Date(2026, time.October, 17, 18, 0, 0, 0, time.UTC)

		summary := sales.Summarize([]models.Order{order(4200, utc)}, now)

		assert.Equal(t, int64(4200), summary.Today)
	})

	t.Run("Month start in the week window", func(t *testing.T) {
		early := time.Date(2026, time.November, 2, 9, 0, 0, 0, jakarta)
		orders := []models.Order{
			order(100, time.Date(2026, time.October, 29, 9, 0, 0, 0, jakarta)),
			order(200, time.Date(2026, time.November, 1, 9, 0, 0, 0, jakarta)),
		}

		summary := sales.Summarize(orders, early)

		assert.Equal(t, int64(300), summary.ThisWeek)
		assert.Equal(t, int64(200), summary.ThisMonth)
	})
}
