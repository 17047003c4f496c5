package metrics

import "sort"

const dayFormat = "2006-01-02"

// cashFlowSeries buckets movements by calendar day in the reporting
// timezone. Paid totals flow in, refunded totals flow out, and shipping cost
// flows out for every order regardless of status — the dashboard has always
// treated shipping as an incurred cost even on unpaid orders.
//
// netPosition is the historical "cumulative balance" figure: net revenue
// minus total expenses, not a running sum. The true running sum is exposed
// separately as CumulativeNet and per-day Cumulative values.
func (e *Engine) cashFlowSeries(orders []Order, netPosition float64) CashFlowSeries {
	type bucket struct {
		inflow  float64
		outflow float64
	}
	byDay := make(map[string]*bucket)
	for _, o := range orders {
		day := o.CreatedAt.In(e.loc).Format(dayFormat)
		b := byDay[day]
		if b == nil {
			b = &bucket{}
			byDay[day] = b
		}
		switch o.PaymentStatus {
		case PaymentPaid:
			b.inflow += o.Totals.Total
		case PaymentRefunded:
			b.outflow += o.Totals.Total
		}
		b.outflow += o.Totals.ShippingCost
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	series := CashFlowSeries{
		Days:                make([]CashFlowDay, 0, len(days)),
		NetPositionEstimate: netPosition,
	}
	var totalIn, totalOut, running float64
	for _, day := range days {
		b := byDay[day]
		net := b.inflow - b.outflow
		running += net
		totalIn += b.inflow
		totalOut += b.outflow
		series.Days = append(series.Days, CashFlowDay{
			Date:       day,
			Inflow:     b.inflow,
			Outflow:    b.outflow,
			Net:        net,
			Cumulative: running,
		})
	}

	// Averages are taken over days that saw at least one order, not over the
	// whole filter window.
	if n := float64(len(days)); n > 0 {
		series.AvgDailyInflow = totalIn / n
		series.AvgDailyOutflow = totalOut / n
	}
	series.NetCashFlow = series.AvgDailyInflow - series.AvgDailyOutflow
	series.CumulativeNet = running
	return series
}
