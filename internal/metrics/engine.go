package metrics

import (
	"fmt"
	"time"
)

// PriorPeriod tags the optional comparable prior-period order set. The zero
// value means "not available": growth percentages are then flagged
// unavailable instead of being fabricated from the current period.
type PriorPeriod struct {
	orders    []Order
	available bool
}

// PriorOrders marks the prior window as measured, even when it is empty.
func PriorOrders(orders []Order) PriorPeriod {
	return PriorPeriod{orders: orders, available: true}
}

// NoPriorPeriod reports the prior window as unavailable.
func NoPriorPeriod() PriorPeriod {
	return PriorPeriod{}
}

// Available reports whether a genuine prior window was supplied.
func (p PriorPeriod) Available() bool { return p.available }

// Engine derives dashboard metrics from normalized orders. It is a pure
// computation: no I/O, no clock reads, no state shared across calls. The same
// input always produces the same Result.
type Engine struct {
	cfg Config
	loc *time.Location
}

// NewEngine validates the configuration and returns a ready engine.
func NewEngine(cfg Config) (*Engine, error) {
	cfg = cfg.withDefaults()
	loc, err := cfg.location()
	if err != nil {
		return nil, fmt.Errorf("metrics: reporting timezone %q: %w", cfg.ReportingTimezone, err)
	}
	return &Engine{cfg: cfg, loc: loc}, nil
}

// Config returns the constants the engine computes with.
func (e *Engine) Config() Config { return e.cfg }

// Compute is the single entry point for callers. It never fails: empty input
// yields a fully populated Result with zeroed numeric fields, and every
// division is guarded so no ratio is ever NaN or infinite.
//
// The orders are assumed to be pre-filtered by the caller's FilterContext;
// the filter only contributes the period length for daily-average
// normalization. The prior period, when available, must cover the
// equal-length window immediately preceding the filter's range.
func (e *Engine) Compute(orders []Order, filter FilterContext, prior PriorPeriod) Result {
	periodDays := filter.PeriodDays(e.cfg.FallbackPeriodDays)

	gross := grossRevenue(orders)
	net := netRevenue(orders)
	dailyAvg := net / float64(maxInt(periodDays, 1))

	revenue := RevenueTrend{
		GrossRevenue:      gross,
		NetRevenue:        net,
		PeriodDays:        periodDays,
		DailyAverage:      dailyAvg,
		MonthlyProjection: dailyAvg * 30,
		Growth:            growthAgainst(prior, net, netRevenue),
	}

	profit := e.profitability(net, prior)
	expenses := e.expenseBreakdown(orders, net)

	return Result{
		Revenue:       revenue,
		Profitability: profit,
		Dispersion:    categoryDispersion(orders),
		Forecast: SalesForecast{
			DailyAverage:    dailyAvg,
			Projected30Days: dailyAvg * 30,
		},
		Tax:       taxSummary(orders),
		Customers: customerInsights(orders, e.cfg.TopCustomerCount),
		Refunds:   refundSummary(orders),
		Expenses:  expenses,
		CashFlow:  e.cashFlowSeries(orders, net-expenses.TotalExpenses),
	}
}

// growthAgainst computes the period-over-period percentage for a metric when
// a measured prior window exists.
func growthAgainst(prior PriorPeriod, current float64, metric func([]Order) float64) GrowthRate {
	if !prior.available {
		return GrowthRate{}
	}
	return GrowthRate{
		Pct:       variancePercent(metric(prior.orders), current),
		Available: true,
	}
}

func (e *Engine) profitability(net float64, prior PriorPeriod) Profitability {
	cost := net * e.cfg.CostRatio
	p := Profitability{
		Revenue:       net,
		EstimatedCost: cost,
		Profit:        net - cost,
	}
	if prior.available {
		priorNet := netRevenue(prior.orders)
		priorProfit := priorNet - priorNet*e.cfg.CostRatio
		p.Growth = GrowthRate{Pct: variancePercent(priorProfit, p.Profit), Available: true}
	}
	return p
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
