package metrics

import (
	"math"
	"sort"
)

func grossRevenue(orders []Order) float64 {
	var sum float64
	for _, o := range orders {
		sum += o.Totals.Total
	}
	return sum
}

// netRevenue subtracts refunded order totals from gross revenue.
func netRevenue(orders []Order) float64 {
	var refunded float64
	for _, o := range orders {
		if o.PaymentStatus == PaymentRefunded {
			refunded += o.Totals.Total
		}
	}
	return grossRevenue(orders) - refunded
}

// categoryDispersion groups item revenue by category and reports the
// coefficient of variation across the buckets. Items without a category are
// excluded from this grouping only; they still count everywhere else.
func categoryDispersion(orders []Order) CategoryDispersion {
	buckets := make(map[string]float64)
	for _, o := range orders {
		for _, item := range o.Items {
			if item.CategoryID == nil || *item.CategoryID == "" {
				continue
			}
			buckets[*item.CategoryID] += item.TotalPrice
		}
	}

	categories := make([]CategoryRevenue, 0, len(buckets))
	for id, revenue := range buckets {
		categories = append(categories, CategoryRevenue{CategoryID: id, Revenue: revenue})
	}
	sort.Slice(categories, func(i, j int) bool {
		if categories[i].Revenue != categories[j].Revenue {
			return categories[i].Revenue > categories[j].Revenue
		}
		return categories[i].CategoryID < categories[j].CategoryID
	})

	result := CategoryDispersion{Buckets: len(buckets), Categories: categories}
	if len(buckets) < 2 {
		return result
	}

	var mean float64
	for _, c := range categories {
		mean += c.Revenue
	}
	mean /= float64(len(categories))
	if almostZero(mean) {
		return result
	}

	var variance float64
	for _, c := range categories {
		d := c.Revenue - mean
		variance += d * d
	}
	variance /= float64(len(categories))
	result.Coefficient = math.Sqrt(variance) / mean * 100
	return result
}

func taxSummary(orders []Order) TaxSummary {
	var total float64
	for _, o := range orders {
		total += o.Totals.Tax
	}
	status := TaxStatusNoData
	if total > 0 {
		status = TaxStatusCompliant
	}
	return TaxSummary{TotalTaxCollected: total, Status: status}
}

// expenseBreakdown estimates processing fees per paid order from the
// configured card rate. Platform fees are carried as an explicit zero so the
// breakdown shape stays stable if a fee schedule appears later.
func (e *Engine) expenseBreakdown(orders []Order, net float64) ExpenseBreakdown {
	var shipping, fees float64
	for _, o := range orders {
		shipping += o.Totals.ShippingCost
		if o.PaymentStatus == PaymentPaid {
			fees += o.Totals.Total*e.cfg.CardProcessingRate + e.cfg.CardProcessingFixedFee
		}
	}
	total := fees + shipping
	return ExpenseBreakdown{
		ShippingCosts:  shipping,
		ProcessingFees: fees,
		PlatformFees:   0,
		TotalExpenses:  total,
		NetIncome:      net - total,
	}
}

func refundSummary(orders []Order) RefundSummary {
	var amount float64
	count := 0
	for _, o := range orders {
		if o.PaymentStatus == PaymentRefunded {
			amount += o.Totals.Total
			count++
		}
	}
	s := RefundSummary{TotalRefundAmount: amount, RefundCount: count}
	if count > 0 {
		s.AverageRefundValue = amount / float64(count)
	}
	if len(orders) > 0 {
		s.RefundRate = float64(count) / float64(len(orders)) * 100
	}
	return s
}

// variancePercent reports growth from base to current, with guarded zeros.
func variancePercent(base, current float64) float64 {
	if almostZero(base) {
		if almostZero(current) {
			return 0
		}
		return 100
	}
	return (current - base) / base * 100
}

func almostZero(v float64) bool {
	return v > -0.0001 && v < 0.0001
}
