package metrics

import (
	"fmt"
	"testing"
	"time"
)

func TestCustomerInsightsTopNCap(t *testing.T) {
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	orders := make([]Order, 0, 12)
	var registeredRevenue float64
	for i := 0; i < 12; i++ {
		total := float64((i + 1) * 10)
		registeredRevenue += total
		orders = append(orders, paidOrder(fmt.Sprintf("o%d", i), fmt.Sprintf("u%d", i), total, day))
	}

	insights := customerInsights(orders, 10)
	if insights.UniqueRegisteredCustomers != 12 {
		t.Fatalf("unique customers = %d", insights.UniqueRegisteredCustomers)
	}
	// Top 10 of 10..120 by tens: sum of 30..120.
	if insights.TopCustomersRevenue != 750 {
		t.Fatalf("top customers revenue = %v, want 750", insights.TopCustomersRevenue)
	}
	if insights.TopCustomersRevenue > registeredRevenue {
		t.Fatalf("top-N revenue must not exceed the registered total")
	}
	if insights.RepeatPurchaseRate != 0 {
		t.Fatalf("all single-order customers must yield 0 repeat rate")
	}
}

func TestCustomerInsightsFewerThanTopN(t *testing.T) {
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	orders := []Order{
		paidOrder("o1", "u1", 100, day),
		paidOrder("o2", "u2", 60, day),
	}
	insights := customerInsights(orders, 10)
	if insights.TopCustomersRevenue != 160 {
		t.Fatalf("fewer customers than N must sum them all, got %v", insights.TopCustomersRevenue)
	}
}

func TestCustomerInsightsGuestsOnly(t *testing.T) {
	day := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	orders := []Order{
		paidOrder("o1", "", 30, day),
		paidOrder("o2", "", 70, day),
	}
	insights := customerInsights(orders, 10)
	if insights.CustomerLifetimeValue != 0 {
		t.Fatalf("ltv must be 0 without registered customers")
	}
	if insights.GuestVsRegisteredRatio != 100 {
		t.Fatalf("guest ratio = %v, want 100", insights.GuestVsRegisteredRatio)
	}
	// One collapsed guest bucket.
	if insights.AverageSpendPerCustomer != 100 {
		t.Fatalf("average spend = %v, want 100", insights.AverageSpendPerCustomer)
	}
}

func TestCustomerInsightsEmpty(t *testing.T) {
	insights := customerInsights(nil, 10)
	if insights.RepeatPurchaseRate != 0 || insights.CustomerLifetimeValue != 0 ||
		insights.AverageSpendPerCustomer != 0 || insights.GuestVsRegisteredRatio != 0 {
		t.Fatalf("empty input must zero all rates: %#v", insights)
	}
	if !insights.GuestsCollapsed {
		t.Fatalf("guests-collapsed flag is structural and always set")
	}
}
