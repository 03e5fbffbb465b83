// Package sales rolls historical orders up into the dashboard totals.
package sales

import (
	"time"

	"github.com/warung-alinaldi/pos-backend/internal/models"
)

// Summarize computes today, this week and this month totals. Order dates are
// compared as calendar days in now's location. The week covers the days on or
// after the day of now minus seven days.
func Summarize(orders []models.Order, now time.Time) models.SalesSummary {
	loc := now.Location()
	today := day(now)
	weekStart := day(now.AddDate(0, 0, -7))

	var summary models.SalesSummary

	for _, order := range orders {
		placed := order.CreatedAt.In(loc)
		placedDay := day(placed)

		if placedDay.Equal(today) {
			summary.Today += order.TotalAmount
		}

		if !placedDay.Before(weekStart) {
			summary.ThisWeek += order.TotalAmount
		}

		if placed.Year() == now.Year() && placed.Month() == now.Month() {
			summary.ThisMonth += order.TotalAmount
		}
	}

	return summary
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
