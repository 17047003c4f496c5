package metrics

import "time"

// CustomerKind distinguishes account-backed buyers from anonymous checkouts.
type CustomerKind string

const (
	CustomerRegistered CustomerKind = "registered"
	CustomerGuest      CustomerKind = "guest"
)

// PaymentStatus enumerates the payment lifecycle states the engine understands.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// OrderStatus enumerates fulfilment states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
	OrderRefunded   OrderStatus = "refunded"
)

// CustomerRef identifies the buyer of an order. Exactly one kind applies:
// registered orders carry a user ID, guest orders carry none.
type CustomerRef struct {
	Kind   CustomerKind `json:"kind"`
	UserID string       `json:"user_id,omitempty"`
}

// OrderItem is a single line of an order. CategoryID stays nil for catalog
// items without a category; it is never defaulted to a sentinel value.
type OrderItem struct {
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
	TotalPrice float64 `json:"total_price"`
	CategoryID *string `json:"category_id,omitempty"`
}

// OrderTotals carries the monetary rollup of one order in the reporting
// currency. All amounts are non-negative after normalization.
type OrderTotals struct {
	Subtotal     float64 `json:"subtotal"`
	Tax          float64 `json:"tax"`
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`
}

// Order is the engine's normalized input record. The engine never mutates it.
type Order struct {
	ID            string        `json:"id"`
	Customer      CustomerRef   `json:"customer"`
	Items         []OrderItem   `json:"items"`
	Totals        OrderTotals   `json:"totals"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	OrderStatus   OrderStatus   `json:"order_status"`
	CreatedAt     time.Time     `json:"created_at"`
}

// DateRange is a half-open window [From, To). Previous returns the
// equal-length window immediately preceding From.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Previous derives the comparable prior window used for growth metrics.
func (r DateRange) Previous() DateRange {
	span := r.To.Sub(r.From)
	return DateRange{From: r.From.Add(-span), To: r.From}
}

// Days reports the whole number of days spanned by the range, at least 1.
func (r DateRange) Days() int {
	if !r.To.After(r.From) {
		return 1
	}
	days := int(r.To.Sub(r.From) / (24 * time.Hour))
	if days < 1 {
		return 1
	}
	return days
}

// FilterContext describes the criteria already applied upstream to produce
// the order set handed to the engine. The engine re-filters nothing; only the
// date range participates in computation, to normalize daily averages.
type FilterContext struct {
	DateRange     *DateRange    `json:"date_range,omitempty"`
	UserID        string        `json:"user_id,omitempty"`
	CategoryID    string        `json:"category_id,omitempty"`
	ProductID     string        `json:"product_id,omitempty"`
	PaymentStatus PaymentStatus `json:"payment_status,omitempty"`
	OrderStatus   OrderStatus   `json:"order_status,omitempty"`
}

// PeriodDays resolves the length of the filtered period in days, falling back
// to the supplied default when no date range was selected.
func (f FilterContext) PeriodDays(fallback int) int {
	if f.DateRange == nil {
		if fallback < 1 {
			return 1
		}
		return fallback
	}
	return f.DateRange.Days()
}

func validPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

func validOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped,
		OrderDelivered, OrderCancelled, OrderRefunded:
		return true
	}
	return false
}
