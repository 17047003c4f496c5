package metrics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type mockSource struct {
	byWindow map[string][]RawOrder
	calls    int
	err      error
}

func windowKey(filter FilterContext) string {
	if filter.DateRange == nil {
		return "-"
	}
	return filter.DateRange.From.UTC().Format(time.RFC3339)
}

func (m *mockSource) ListOrders(ctx context.Context, filter FilterContext) ([]RawOrder, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.byWindow[windowKey(filter)], nil
}

func newTestService(t *testing.T, source OrderSource) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	cache := NewCache(client, time.Minute)
	return NewService(source, testEngine(t), cache, nil)
}

func rawPaid(id, userID string, total float64, createdAt time.Time) RawOrder {
	raw := RawOrder{
		ID:            id,
		Totals:        &OrderTotals{Total: total},
		PaymentStatus: "paid",
		OrderStatus:   "delivered",
		CreatedAt:     createdAt,
	}
	if userID != "" {
		raw.UserID = &userID
	}
	return raw
}

func TestDashboardCachesByFilter(t *testing.T) {
	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	source := &mockSource{byWindow: map[string][]RawOrder{
		"-": {rawPaid("o1", "u1", 100, day), rawPaid("o2", "u2", 50, day)},
	}}
	svc := newTestService(t, source)

	ctx := context.Background()
	req := DashboardRequest{}
	result, err := svc.Dashboard(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 150.0, result.Metrics.Revenue.NetRevenue)
	require.Equal(t, 1, source.calls)

	// Second call should hit cache.
	_, err = svc.Dashboard(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 1, source.calls, "cached result must not re-fetch")

	// Bumping the cache should trigger reload.
	require.NoError(t, svc.Invalidate(ctx))
	source.byWindow["-"] = append(source.byWindow["-"], rawPaid("o3", "u1", 30, day))
	result, err = svc.Dashboard(ctx, req)
	require.NoError(t, err)
	require.Equal(t, 180.0, result.Metrics.Revenue.NetRevenue)
	require.Equal(t, 2, source.calls)
}

func TestDashboardFetchesPriorWindow(t *testing.T) {
	from := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 30)
	prevFrom := from.AddDate(0, 0, -30)
	source := &mockSource{byWindow: map[string][]RawOrder{
		from.Format(time.RFC3339):     {rawPaid("o1", "u1", 200, from.Add(time.Hour))},
		prevFrom.Format(time.RFC3339): {rawPaid("p1", "u1", 100, prevFrom.Add(time.Hour))},
	}}
	svc := newTestService(t, source)

	result, err := svc.Dashboard(context.Background(), DashboardRequest{
		Filter:  FilterContext{DateRange: &DateRange{From: from, To: to}},
		Compare: true,
	})
	require.NoError(t, err)
	require.Equal(t, 2, source.calls, "expected current and prior fetches")
	growth := result.Metrics.Revenue.Growth
	require.True(t, growth.Available)
	require.Equal(t, 100.0, growth.Pct)
}

func TestDashboardCompareWithoutRangeSkipsPrior(t *testing.T) {
	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	source := &mockSource{byWindow: map[string][]RawOrder{
		"-": {rawPaid("o1", "u1", 100, day)},
	}}
	svc := newTestService(t, source)

	result, err := svc.Dashboard(context.Background(), DashboardRequest{Compare: true})
	require.NoError(t, err)
	require.Equal(t, 1, source.calls, "no prior fetch without a date range")
	require.False(t, result.Metrics.Revenue.Growth.Available,
		"growth must stay unavailable without a comparable window")
}

func TestDashboardReportsExcludedRecords(t *testing.T) {
	day := time.Date(2025, 8, 5, 0, 0, 0, 0, time.UTC)
	source := &mockSource{byWindow: map[string][]RawOrder{
		"-": {
			rawPaid("o1", "u1", 100, day),
			{ID: "", PaymentStatus: "paid", OrderStatus: "delivered", CreatedAt: day},
		},
	}}
	svc := newTestService(t, source)

	result, err := svc.Dashboard(context.Background(), DashboardRequest{})
	require.NoError(t, err)
	require.Equal(t, 1, result.ExcludedOrders)
	require.Equal(t, 100.0, result.Metrics.Revenue.NetRevenue,
		"excluded records must not affect metrics")
}

func TestFilterFingerprintDistinguishesFilters(t *testing.T) {
	base := FilterContext{UserID: "u1"}
	other := FilterContext{UserID: "u2"}
	require.NotEqual(t, filterFingerprint(base, false), filterFingerprint(other, false))
	require.NotEqual(t, filterFingerprint(base, false), filterFingerprint(base, true),
		"compare flag must participate in the key")
	require.Equal(t, filterFingerprint(base, false), filterFingerprint(base, false),
		"fingerprint must be stable")
}
