package metrics

import (
	"math"
	"testing"
	"time"
)

func orderWithItems(id string, items []OrderItem, totals OrderTotals, status PaymentStatus) Order {
	return Order{
		ID:            id,
		Customer:      CustomerRef{Kind: CustomerGuest},
		Items:         items,
		Totals:        totals,
		PaymentStatus: status,
		OrderStatus:   OrderDelivered,
		CreatedAt:     time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestCategoryDispersionSingleBucketIsZero(t *testing.T) {
	cat := "cat-a"
	orders := []Order{orderWithItems("o1", []OrderItem{
		{TotalPrice: 100, CategoryID: &cat},
		{TotalPrice: 50, CategoryID: &cat},
	}, OrderTotals{Total: 150}, PaymentPaid)}

	d := categoryDispersion(orders)
	if d.Coefficient != 0 {
		t.Fatalf("single bucket must yield 0, got %v", d.Coefficient)
	}
	if d.Buckets != 1 {
		t.Fatalf("buckets = %d, want 1", d.Buckets)
	}
}

func TestCategoryDispersionEqualBucketsIsZero(t *testing.T) {
	catA, catB := "cat-a", "cat-b"
	orders := []Order{orderWithItems("o1", []OrderItem{
		{TotalPrice: 100, CategoryID: &catA},
		{TotalPrice: 100, CategoryID: &catB},
	}, OrderTotals{Total: 200}, PaymentPaid)}

	if d := categoryDispersion(orders); d.Coefficient != 0 {
		t.Fatalf("identical buckets must yield 0, got %v", d.Coefficient)
	}
}

func TestCategoryDispersionGrowsWithImbalance(t *testing.T) {
	catA, catB := "cat-a", "cat-b"
	build := func(a, b float64) []Order {
		return []Order{orderWithItems("o1", []OrderItem{
			{TotalPrice: a, CategoryID: &catA},
			{TotalPrice: b, CategoryID: &catB},
		}, OrderTotals{Total: a + b}, PaymentPaid)}
	}

	mild := categoryDispersion(build(110, 90)).Coefficient
	strong := categoryDispersion(build(180, 20)).Coefficient
	if !(strong > mild && mild > 0) {
		t.Fatalf("dispersion must grow with imbalance: mild=%v strong=%v", mild, strong)
	}

	// Two buckets 180/20: mean 100, population stddev 80, CV 80%.
	if math.Abs(strong-80) > 1e-9 {
		t.Fatalf("cv = %v, want 80", strong)
	}
}

func TestCategoryDispersionIgnoresUncategorizedItems(t *testing.T) {
	catA := "cat-a"
	orders := []Order{orderWithItems("o1", []OrderItem{
		{TotalPrice: 100, CategoryID: &catA},
		{TotalPrice: 999, CategoryID: nil},
	}, OrderTotals{Total: 1099}, PaymentPaid)}

	d := categoryDispersion(orders)
	if d.Buckets != 1 {
		t.Fatalf("uncategorized items must not create a bucket, got %d", d.Buckets)
	}
	if d.Categories[0].Revenue != 100 {
		t.Fatalf("bucket revenue = %v, want 100", d.Categories[0].Revenue)
	}
}

func TestTaxSummaryStatusHeuristic(t *testing.T) {
	if s := taxSummary(nil); s.Status != TaxStatusNoData || s.TotalTaxCollected != 0 {
		t.Fatalf("empty input must report no-data, got %#v", s)
	}

	orders := []Order{
		orderWithItems("o1", nil, OrderTotals{Tax: 7, Total: 107}, PaymentPaid),
		orderWithItems("o2", nil, OrderTotals{Tax: 3, Total: 53}, PaymentPending),
	}
	s := taxSummary(orders)
	if s.TotalTaxCollected != 10 {
		t.Fatalf("tax collected = %v, want 10", s.TotalTaxCollected)
	}
	if s.Status != TaxStatusCompliant {
		t.Fatalf("status = %s, want compliant", s.Status)
	}
}

func TestExpenseBreakdownFeesOnlyOnPaidOrders(t *testing.T) {
	engine := testEngine(t)
	orders := []Order{
		orderWithItems("o1", nil, OrderTotals{ShippingCost: 5, Total: 100}, PaymentPaid),
		orderWithItems("o2", nil, OrderTotals{ShippingCost: 3, Total: 200}, PaymentPending),
	}

	net := netRevenue(orders)
	b := engine.expenseBreakdown(orders, net)
	wantFees := 100*DefaultCardProcessingRate + DefaultCardProcessingFixedFee
	if math.Abs(b.ProcessingFees-wantFees) > 1e-9 {
		t.Fatalf("processing fees = %v, want %v", b.ProcessingFees, wantFees)
	}
	if b.ShippingCosts != 8 {
		t.Fatalf("shipping costs = %v, want 8", b.ShippingCosts)
	}
	if b.PlatformFees != 0 {
		t.Fatalf("platform fees must stay 0")
	}
	if math.Abs(b.TotalExpenses-(wantFees+8)) > 1e-9 {
		t.Fatalf("total expenses = %v", b.TotalExpenses)
	}
	if math.Abs(b.NetIncome-(net-b.TotalExpenses)) > 1e-9 {
		t.Fatalf("net income = %v", b.NetIncome)
	}
}

func TestRefundSummaryBounds(t *testing.T) {
	orders := []Order{
		orderWithItems("o1", nil, OrderTotals{Total: 100}, PaymentRefunded),
		orderWithItems("o2", nil, OrderTotals{Total: 60}, PaymentRefunded),
		orderWithItems("o3", nil, OrderTotals{Total: 40}, PaymentPaid),
	}
	s := refundSummary(orders)
	if s.TotalRefundAmount != 160 || s.RefundCount != 2 {
		t.Fatalf("unexpected refund rollup %#v", s)
	}
	if s.AverageRefundValue != 80 {
		t.Fatalf("average refund = %v, want 80", s.AverageRefundValue)
	}
	if s.RefundRate < 0 || s.RefundRate > 100 {
		t.Fatalf("refund rate out of range: %v", s.RefundRate)
	}
}

func TestVariancePercentGuards(t *testing.T) {
	cases := []struct {
		base, current, want float64
	}{
		{0, 0, 0},
		{0, 50, 100},
		{100, 150, 50},
		{200, 100, -50},
	}
	for _, tc := range cases {
		if got := variancePercent(tc.base, tc.current); got != tc.want {
			t.Fatalf("variancePercent(%v, %v) = %v, want %v", tc.base, tc.current, got, tc.want)
		}
	}
}
