package metrics

import "time"

// Default engine constants. Each one is overridable through Config; none is
// hard-coded inside the computations.
const (
	DefaultCostRatio              = 0.30
	DefaultCardProcessingRate     = 0.029
	DefaultCardProcessingFixedFee = 0.30
	DefaultFallbackPeriodDays     = 30
	DefaultTopCustomerCount       = 10
	DefaultReportingTimezone      = "UTC"
)

// Config collects the named constants that shape metric derivation.
type Config struct {
	// CostRatio estimates cost of goods as a share of net revenue.
	CostRatio float64
	// CardProcessingRate and CardProcessingFixedFee approximate card fees
	// charged per paid order.
	CardProcessingRate     float64
	CardProcessingFixedFee float64
	// FallbackPeriodDays is assumed when the filter has no date range.
	FallbackPeriodDays int
	// TopCustomerCount caps the top-customer revenue rollup.
	TopCustomerCount int
	// ReportingTimezone is the IANA zone used for cash-flow day boundaries.
	// It is resolved once so the series stays deterministic across callers.
	ReportingTimezone string
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		CostRatio:              DefaultCostRatio,
		CardProcessingRate:     DefaultCardProcessingRate,
		CardProcessingFixedFee: DefaultCardProcessingFixedFee,
		FallbackPeriodDays:     DefaultFallbackPeriodDays,
		TopCustomerCount:       DefaultTopCustomerCount,
		ReportingTimezone:      DefaultReportingTimezone,
	}
}

// withDefaults fills unset fields so a partially populated Config behaves.
func (c Config) withDefaults() Config {
	if c.CostRatio <= 0 {
		c.CostRatio = DefaultCostRatio
	}
	if c.CardProcessingRate <= 0 {
		c.CardProcessingRate = DefaultCardProcessingRate
	}
	if c.CardProcessingFixedFee <= 0 {
		c.CardProcessingFixedFee = DefaultCardProcessingFixedFee
	}
	if c.FallbackPeriodDays <= 0 {
		c.FallbackPeriodDays = DefaultFallbackPeriodDays
	}
	if c.TopCustomerCount <= 0 {
		c.TopCustomerCount = DefaultTopCustomerCount
	}
	if c.ReportingTimezone == "" {
		c.ReportingTimezone = DefaultReportingTimezone
	}
	return c
}

func (c Config) location() (*time.Location, error) {
	return time.LoadLocation(c.ReportingTimezone)
}
