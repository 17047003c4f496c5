package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/finsight-bo/finsight/internal/metrics"
)

func TestWriteSummaryCSV(t *testing.T) {
	result := metrics.Result{}
	result.Revenue.GrossRevenue = 1500.5
	result.Revenue.NetRevenue = 1400
	result.Tax.Status = metrics.TaxStatusCompliant
	result.Refunds.RefundCount = 2

	var buf bytes.Buffer
	if err := WriteSummaryCSV(&buf, result); err != nil {
		t.Fatalf("write summary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Gross Revenue,\"1,500.50\"") {
		t.Fatalf("missing formatted gross revenue in output:\n%s", out)
	}
	if !strings.Contains(out, "Revenue Growth %,n/a") {
		t.Fatalf("unavailable growth must render as n/a:\n%s", out)
	}
	if !strings.Contains(out, "Tax Status,compliant") {
		t.Fatalf("missing tax status:\n%s", out)
	}

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output must stay parseable csv: %v", err)
	}
	if len(records) < 20 {
		t.Fatalf("expected the full summary grid, got %d rows", len(records))
	}
}

func TestWriteCashFlowCSV(t *testing.T) {
	series := metrics.CashFlowSeries{Days: []metrics.CashFlowDay{
		{Date: "2025-06-01", Inflow: 100, Outflow: 37, Net: 63, Cumulative: 63},
		{Date: "2025-06-02", Inflow: 60, Outflow: 4, Net: 56, Cumulative: 119},
	}}

	var buf bytes.Buffer
	if err := WriteCashFlowCSV(&buf, series); err != nil {
		t.Fatalf("write cash flow: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[1][0] != "2025-06-01" || records[2][4] != "119.00" {
		t.Fatalf("unexpected rows %#v", records)
	}
}

func TestWriteCategoryCSV(t *testing.T) {
	dispersion := metrics.CategoryDispersion{Categories: []metrics.CategoryRevenue{
		{CategoryID: "cat-a", Revenue: 180},
		{CategoryID: "cat-b", Revenue: 20},
	}}

	var buf bytes.Buffer
	if err := WriteCategoryCSV(&buf, dispersion); err != nil {
		t.Fatalf("write categories: %v", err)
	}
	if !strings.Contains(buf.String(), "cat-a,180.00") {
		t.Fatalf("missing category row:\n%s", buf.String())
	}
}
