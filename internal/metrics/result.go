package metrics

// TaxStatus is a presence heuristic, not a compliance audit: it only reports
// whether any tax was collected in the filtered set.
type TaxStatus string

const (
	TaxStatusCompliant TaxStatus = "compliant"
	TaxStatusNoData    TaxStatus = "no-data"
)

// GrowthRate carries a period-over-period percentage together with an
// availability flag. When no comparable prior window was supplied the flag is
// false and the percentage must be rendered as "not available", never as 0.
type GrowthRate struct {
	Pct       float64 `json:"pct"`
	Available bool    `json:"available"`
}

// RevenueTrend summarizes revenue for the filtered period.
type RevenueTrend struct {
	GrossRevenue      float64    `json:"gross_revenue"`
	NetRevenue        float64    `json:"net_revenue"`
	PeriodDays        int        `json:"period_days"`
	DailyAverage      float64    `json:"daily_average"`
	MonthlyProjection float64    `json:"monthly_projection"`
	Growth            GrowthRate `json:"growth"`
}

// Profitability estimates profit from net revenue and a configured cost
// ratio. No actual cost ledger flows through order records.
type Profitability struct {
	Revenue       float64    `json:"revenue"`
	EstimatedCost float64    `json:"estimated_cost"`
	Profit        float64    `json:"profit"`
	Growth        GrowthRate `json:"growth"`
}

// CategoryRevenue is one category bucket of item revenue.
type CategoryRevenue struct {
	CategoryID string  `json:"category_id"`
	Revenue    float64 `json:"revenue"`
}

// CategoryDispersion reports the coefficient of variation across category
// revenue buckets within the period. It is a cross-sectional spread measure,
// not a seasonality trend. Fewer than two buckets yield 0 by definition.
type CategoryDispersion struct {
	Coefficient float64           `json:"coefficient"`
	Buckets     int               `json:"buckets"`
	Categories  []CategoryRevenue `json:"categories"`
}

// SalesForecast is a naive linear extrapolation of the daily average over a
// 30-day horizon. It applies no trend or seasonality correction.
type SalesForecast struct {
	DailyAverage    float64 `json:"daily_average"`
	Projected30Days float64 `json:"projected_30_days"`
}

// TaxSummary rolls up collected tax for the period.
type TaxSummary struct {
	TotalTaxCollected float64   `json:"total_tax_collected"`
	Status            TaxStatus `json:"status"`
}

// ExpenseBreakdown aggregates shipping costs with estimated card processing
// fees. Processing fees are an approximation; no charged-fee data exists on
// the order record.
type ExpenseBreakdown struct {
	ShippingCosts  float64 `json:"shipping_costs"`
	ProcessingFees float64 `json:"processing_fees"`
	PlatformFees   float64 `json:"platform_fees"`
	TotalExpenses  float64 `json:"total_expenses"`
	NetIncome      float64 `json:"net_income"`
}

// CustomerInsights covers per-customer revenue grouping. Guests carry no
// stable cross-order identity, so all guest orders collapse into one bucket;
// GuestsCollapsed makes that approximation explicit in the output.
type CustomerInsights struct {
	UniqueRegisteredCustomers int     `json:"unique_registered_customers"`
	GuestOrders               int     `json:"guest_orders"`
	TotalOrders               int     `json:"total_orders"`
	TopCustomersRevenue       float64 `json:"top_customers_revenue"`
	CustomerLifetimeValue     float64 `json:"customer_lifetime_value"`
	AverageSpendPerCustomer   float64 `json:"average_spend_per_customer"`
	RepeatPurchaseRate        float64 `json:"repeat_purchase_rate"`
	GuestVsRegisteredRatio    float64 `json:"guest_vs_registered_ratio"`
	GuestsCollapsed           bool    `json:"guests_collapsed"`
}

// RefundSummary rolls up refunded orders.
type RefundSummary struct {
	TotalRefundAmount  float64 `json:"total_refund_amount"`
	RefundCount        int     `json:"refund_count"`
	AverageRefundValue float64 `json:"average_refund_value"`
	RefundRate         float64 `json:"refund_rate"`
}

// CashFlowDay is the aggregated movement for one calendar day in the
// reporting timezone. Cumulative is the running sum of Net up to that day.
type CashFlowDay struct {
	Date       string  `json:"date"`
	Inflow     float64 `json:"inflow"`
	Outflow    float64 `json:"outflow"`
	Net        float64 `json:"net"`
	Cumulative float64 `json:"cumulative"`
}

// CashFlowSeries buckets order cash movement by calendar day.
// NetPositionEstimate preserves the historical dashboard figure (net revenue
// minus total expenses); CumulativeNet is the true running sum over the day
// buckets and is reported as a distinct field.
type CashFlowSeries struct {
	Days                []CashFlowDay `json:"days"`
	AvgDailyInflow      float64       `json:"avg_daily_inflow"`
	AvgDailyOutflow     float64       `json:"avg_daily_outflow"`
	NetCashFlow         float64       `json:"net_cash_flow"`
	NetPositionEstimate float64       `json:"net_position_estimate"`
	CumulativeNet       float64       `json:"cumulative_net"`
}

// Result is the complete metrics tree returned by the engine. It is a plain
// value, safe to serialize, and recomputed from scratch on every call.
type Result struct {
	Revenue       RevenueTrend       `json:"revenue"`
	Profitability Profitability      `json:"profitability"`
	Dispersion    CategoryDispersion `json:"category_dispersion"`
	Forecast      SalesForecast      `json:"sales_forecast"`
	Tax           TaxSummary         `json:"tax_summary"`
	Customers     CustomerInsights   `json:"customer_insights"`
	Refunds       RefundSummary      `json:"refund_summary"`
	Expenses      ExpenseBreakdown   `json:"expense_breakdown"`
	CashFlow      CashFlowSeries     `json:"cash_flow"`
}
