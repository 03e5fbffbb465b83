package service

import "time"

// SetClock pins the clock of an order service created by NewOrderService.
func SetClock(s OrderService, now func() time.Time) {
	s.(*orderService).now = now
}
