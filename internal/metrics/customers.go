package metrics

import "sort"

// customerInsights partitions orders into registered and guest buyers and
// derives per-customer revenue metrics. Guest orders share one synthetic
// bucket for the average-spend denominator; GuestsCollapsed in the result
// documents that approximation instead of hiding it.
func customerInsights(orders []Order, topN int) CustomerInsights {
	revenueByCustomer := make(map[string]float64)
	ordersByCustomer := make(map[string]int)
	guestOrders := 0
	for _, o := range orders {
		if o.Customer.Kind == CustomerRegistered {
			revenueByCustomer[o.Customer.UserID] += o.Totals.Total
			ordersByCustomer[o.Customer.UserID]++
			continue
		}
		guestOrders++
	}

	insights := CustomerInsights{
		UniqueRegisteredCustomers: len(revenueByCustomer),
		GuestOrders:               guestOrders,
		TotalOrders:               len(orders),
		GuestsCollapsed:           true,
	}

	var registeredRevenue float64
	values := make([]float64, 0, len(revenueByCustomer))
	for _, v := range revenueByCustomer {
		registeredRevenue += v
		values = append(values, v)
	}
	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	if topN > len(values) {
		topN = len(values)
	}
	for _, v := range values[:topN] {
		insights.TopCustomersRevenue += v
	}

	if len(revenueByCustomer) > 0 {
		insights.CustomerLifetimeValue = registeredRevenue / float64(len(revenueByCustomer))

		repeat := 0
		for _, count := range ordersByCustomer {
			if count > 1 {
				repeat++
			}
		}
		insights.RepeatPurchaseRate = float64(repeat) / float64(len(revenueByCustomer)) * 100
	}

	// One bucket per registered customer plus a single shared guest bucket.
	customerBuckets := len(revenueByCustomer)
	if guestOrders > 0 {
		customerBuckets++
	}
	if customerBuckets > 0 {
		insights.AverageSpendPerCustomer = grossRevenue(orders) / float64(customerBuckets)
	}

	if len(orders) > 0 {
		insights.GuestVsRegisteredRatio = float64(guestOrders) / float64(len(orders)) * 100
	}
	return insights
}
