package metrics

import (
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func TestNormalizeRepairsAndExcludes(t *testing.T) {
	created := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	raw := []RawOrder{
		{
			ID:            "ord-1",
			UserID:        strPtr("user-1"),
			PaymentStatus: "PAID",
			OrderStatus:   "delivered",
			CreatedAt:     created,
			Totals:        &OrderTotals{Subtotal: 90, Tax: 10, ShippingCost: 5, Total: 100},
			Items: []RawItem{
				{Quantity: 2, UnitPrice: 45, TotalPrice: 90, CategoryID: strPtr("cat-a")},
				{Quantity: -1, UnitPrice: -3, TotalPrice: -3, CategoryID: nil},
			},
		},
		{
			// Missing totals default to zero.
			ID:            "ord-2",
			PaymentStatus: "pending",
			OrderStatus:   "pending",
			CreatedAt:     created,
		},
		{
			// No ID: unusable.
			PaymentStatus: "paid",
			OrderStatus:   "delivered",
			CreatedAt:     created,
		},
		{
			// Unknown payment status: unusable.
			ID:            "ord-3",
			PaymentStatus: "charged_back",
			OrderStatus:   "delivered",
			CreatedAt:     created,
		},
		{
			// Missing timestamp: unusable.
			ID:            "ord-4",
			PaymentStatus: "paid",
			OrderStatus:   "delivered",
		},
	}

	orders, excluded := Normalize(raw)
	if len(orders) != 2 {
		t.Fatalf("expected 2 normalized orders got %d", len(orders))
	}
	if excluded != 3 {
		t.Fatalf("expected 3 excluded got %d", excluded)
	}

	first := orders[0]
	if first.Customer.Kind != CustomerRegistered || first.Customer.UserID != "user-1" {
		t.Fatalf("unexpected customer ref %#v", first.Customer)
	}
	if first.PaymentStatus != PaymentPaid {
		t.Fatalf("payment status not lowered: %s", first.PaymentStatus)
	}
	if first.Items[1].Quantity != 0 || first.Items[1].UnitPrice != 0 {
		t.Fatalf("negative item values not clamped: %#v", first.Items[1])
	}
	if first.Items[1].CategoryID != nil {
		t.Fatalf("nil category must stay nil")
	}

	second := orders[1]
	if second.Customer.Kind != CustomerGuest {
		t.Fatalf("missing user id must normalize to guest, got %s", second.Customer.Kind)
	}
	if second.Totals != (OrderTotals{}) {
		t.Fatalf("missing totals must default to zero, got %#v", second.Totals)
	}
}

func TestNormalizeBlankUserIDIsGuest(t *testing.T) {
	orders, excluded := Normalize([]RawOrder{{
		ID:            "ord-1",
		UserID:        strPtr("   "),
		PaymentStatus: "paid",
		OrderStatus:   "delivered",
		CreatedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}})
	if excluded != 0 || len(orders) != 1 {
		t.Fatalf("unexpected normalize outcome: %d orders, %d excluded", len(orders), excluded)
	}
	if orders[0].Customer.Kind != CustomerGuest {
		t.Fatalf("blank user id must collapse to guest")
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	orders, excluded := Normalize(nil)
	if orders == nil {
		t.Fatalf("normalize must return a non-nil slice")
	}
	if len(orders) != 0 || excluded != 0 {
		t.Fatalf("unexpected output for empty input")
	}
}
