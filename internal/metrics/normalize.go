package metrics

import (
	"strings"
	"time"
)

// RawOrder is an order record as it arrives from the order query layer,
// before any validation. Fields may be missing or inconsistent.
type RawOrder struct {
	ID            string       `json:"id"`
	UserID        *string      `json:"user_id"`
	Items         []RawItem    `json:"items"`
	Totals        *OrderTotals `json:"totals"`
	PaymentStatus string       `json:"payment_status"`
	OrderStatus   string       `json:"order_status"`
	CreatedAt     time.Time    `json:"created_at"`
}

// RawItem mirrors OrderItem with no guarantees on its values.
type RawItem struct {
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	CategoryID *string `json:"category_id"`
}

// Normalize validates and repairs raw order records into the engine's shape.
// It never fails: unusable records are dropped and counted, repairable ones
// are defaulted. The excluded count exists for caller-side observability and
// plays no role in downstream metric computation.
//
// A record is unusable when its ID is empty, its creation time is missing, or
// either status value is outside the known enums. Missing totals default to
// zero, negative amounts are clamped to zero, and a nil item category is kept
// as nil rather than rewritten to a sentinel category.
func Normalize(raw []RawOrder) ([]Order, int) {
	orders := make([]Order, 0, len(raw))
	excluded := 0
	for _, r := range raw {
		order, ok := normalizeOne(r)
		if !ok {
			excluded++
			continue
		}
		orders = append(orders, order)
	}
	return orders, excluded
}

func normalizeOne(r RawOrder) (Order, bool) {
	id := strings.TrimSpace(r.ID)
	if id == "" || r.CreatedAt.IsZero() {
		return Order{}, false
	}
	payment := PaymentStatus(strings.ToLower(strings.TrimSpace(r.PaymentStatus)))
	status := OrderStatus(strings.ToLower(strings.TrimSpace(r.OrderStatus)))
	if !validPaymentStatus(payment) || !validOrderStatus(status) {
		return Order{}, false
	}

	customer := CustomerRef{Kind: CustomerGuest}
	if r.UserID != nil {
		if userID := strings.TrimSpace(*r.UserID); userID != "" {
			customer = CustomerRef{Kind: CustomerRegistered, UserID: userID}
		}
	}

	totals := OrderTotals{}
	if r.Totals != nil {
		totals = OrderTotals{
			Subtotal:     clampAmount(r.Totals.Subtotal),
			Tax:          clampAmount(r.Totals.Tax),
			ShippingCost: clampAmount(r.Totals.ShippingCost),
			Total:        clampAmount(r.Totals.Total),
		}
	}

	items := make([]OrderItem, 0, len(r.Items))
	for _, item := range r.Items {
		qty := item.Quantity
		if qty < 0 {
			qty = 0
		}
		items = append(items, OrderItem{
			Quantity:   qty,
			UnitPrice:  clampAmount(item.UnitPrice),
			TotalPrice: clampAmount(item.TotalPrice),
			CategoryID: item.CategoryID,
		})
	}

	return Order{
		ID:            id,
		Customer:      customer,
		Items:         items,
		Totals:        totals,
		PaymentStatus: payment,
		OrderStatus:   status,
		CreatedAt:     r.CreatedAt,
	}, true
}

func clampAmount(v float64) float64 {
	if v < 0 || v != v {
		return 0
	}
	return v
}
