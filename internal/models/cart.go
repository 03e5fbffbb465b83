package models

import "math"

// MaxLineQuantity is the largest quantity an order line column holds.
const MaxLineQuantity = math.MaxInt32

type CartLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

func (l CartLine) Subtotal() int64 {
	return int64(l.Quantity) * l.UnitPrice
}

// CheckedSubtotal multiplies a non-negative quantity and unit price and
// reports false when the product does not fit in an int64.
func CheckedSubtotal(quantity int, unitPrice int64) (int64, bool) {
	if quantity < 0 || unitPrice < 0 {
		return 0, false
	}

	if unitPrice != 0 && int64(quantity) > math.MaxInt64/unitPrice {
		return 0, false
	}

	return int64(quantity) * unitPrice, true
}

// CartView is the read model returned to the terminal UI.
type CartView struct {
	Lines []CartLine `json:"lines"`
	Total int64      `json:"total"`
}

type AddItemRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
}

type UpdateQuantityRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"lte=2147483647"`
}

type ScanRequest struct {
	Code string `json:"code" validate:"required"`
}

// ScanResult reports the outcome of a single scanned code. A miss carries a
// Notice instead of an error.
type ScanResult struct {
	Code    string   `json:"code"`
	Product *Product `json:"product,omitempty"`
	Notice  string   `json:"notice,omitempty"`
}

type KeyEventRequest struct {
	Key      string `json:"key" validate:"required"`
	OffsetMS int64  `json:"offset_ms" validate:"gte=0"`
}

type KeyEventsRequest struct {
	Events []KeyEventRequest `json:"events" validate:"required,min=1,dive"`
}

type KeyEventsResponse struct {
	Scans []ScanResult `json:"scans"`
	Cart  CartView     `json:"cart"`
}
