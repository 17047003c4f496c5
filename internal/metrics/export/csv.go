// Package export serialises metrics results for download surfaces.
package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/finsight-bo/finsight/internal/metrics"
)

var amountPrinter = message.NewPrinter(language.English)

// WriteSummaryCSV serialises the scalar metric groups to CSV.
func WriteSummaryCSV(w io.Writer, result metrics.Result) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Gross Revenue", formatAmount(result.Revenue.GrossRevenue)},
		{"Net Revenue", formatAmount(result.Revenue.NetRevenue)},
		{"Daily Average Revenue", formatAmount(result.Revenue.DailyAverage)},
		{"Monthly Projection", formatAmount(result.Revenue.MonthlyProjection)},
		{"Revenue Growth %", formatGrowth(result.Revenue.Growth)},
		{"Estimated Cost", formatAmount(result.Profitability.EstimatedCost)},
		{"Profit", formatAmount(result.Profitability.Profit)},
		{"Profit Growth %", formatGrowth(result.Profitability.Growth)},
		{"Category Revenue Dispersion %", formatFloat(result.Dispersion.Coefficient)},
		{"Sales Forecast (30d)", formatAmount(result.Forecast.Projected30Days)},
		{"Tax Collected", formatAmount(result.Tax.TotalTaxCollected)},
		{"Tax Status", string(result.Tax.Status)},
		{"Shipping Costs", formatAmount(result.Expenses.ShippingCosts)},
		{"Processing Fees", formatAmount(result.Expenses.ProcessingFees)},
		{"Total Expenses", formatAmount(result.Expenses.TotalExpenses)},
		{"Net Income", formatAmount(result.Expenses.NetIncome)},
		{"Unique Registered Customers", strconv.Itoa(result.Customers.UniqueRegisteredCustomers)},
		{"Top Customers Revenue", formatAmount(result.Customers.TopCustomersRevenue)},
		{"Customer Lifetime Value", formatAmount(result.Customers.CustomerLifetimeValue)},
		{"Average Spend Per Customer", formatAmount(result.Customers.AverageSpendPerCustomer)},
		{"Repeat Purchase Rate %", formatFloat(result.Customers.RepeatPurchaseRate)},
		{"Guest vs Registered %", formatFloat(result.Customers.GuestVsRegisteredRatio)},
		{"Refund Count", strconv.Itoa(result.Refunds.RefundCount)},
		{"Total Refund Amount", formatAmount(result.Refunds.TotalRefundAmount)},
		{"Average Refund Value", formatAmount(result.Refunds.AverageRefundValue)},
		{"Refund Rate %", formatFloat(result.Refunds.RefundRate)},
		{"Net Position Estimate", formatAmount(result.CashFlow.NetPositionEstimate)},
		{"Cumulative Net Cash", formatAmount(result.CashFlow.CumulativeNet)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCashFlowCSV emits the per-day cash movement series as CSV.
func WriteCashFlowCSV(w io.Writer, series metrics.CashFlowSeries) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Date", "Inflow", "Outflow", "Net", "Cumulative"}); err != nil {
		return err
	}
	for _, day := range series.Days {
		if err := writer.Write([]string{
			day.Date,
			formatAmount(day.Inflow),
			formatAmount(day.Outflow),
			formatAmount(day.Net),
			formatAmount(day.Cumulative),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteCategoryCSV emits the category revenue buckets as CSV.
func WriteCategoryCSV(w io.Writer, dispersion metrics.CategoryDispersion) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Category", "Revenue"}); err != nil {
		return err
	}
	for _, category := range dispersion.Categories {
		if err := writer.Write([]string{category.CategoryID, formatAmount(category.Revenue)}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return amountPrinter.Sprintf("%.2f", v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatGrowth(g metrics.GrowthRate) string {
	if !g.Available {
		return "n/a"
	}
	return formatFloat(g.Pct)
}
