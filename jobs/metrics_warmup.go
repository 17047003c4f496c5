package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/finsight-bo/finsight/internal/jobs"
	"github.com/finsight-bo/finsight/internal/metrics"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

const defaultWarmupWindowDays = 30

// Dashboards is the slice of the metrics service the warmup job needs.
type Dashboards interface {
	Dashboard(ctx context.Context, req metrics.DashboardRequest) (metrics.DashboardResult, error)
}

// MetricsWarmupJob precomputes dashboard metrics for the trailing window so
// interactive requests land on a warm cache.
type MetricsWarmupJob struct {
	Service    Dashboards
	Logger     *slog.Logger
	Metrics    *jobmetrics.Metrics
	WindowDays int
	clock      func() time.Time
}

// NewMetricsWarmupJob wires dependencies for the warmup handler.
func NewMetricsWarmupJob(service Dashboards, logger *slog.Logger, jm *jobmetrics.Metrics, windowDays int) *MetricsWarmupJob {
	return &MetricsWarmupJob{
		Service:    service,
		Logger:     logger,
		Metrics:    jm,
		WindowDays: windowDays,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes metrics warmup tasks.
func (j *MetricsWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("metrics warmup: handler not configured")
	}
	var payload MetricsWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	windowDays := payload.WindowDays
	if windowDays <= 0 {
		windowDays = j.WindowDays
	}
	if windowDays <= 0 {
		windowDays = defaultWarmupWindowDays
	}

	tracker := j.metrics().Track(TaskMetricsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.Int("window_days", windowDays))
	logger.Info("starting metrics warmup")

	now := j.now()
	window := trailingWindow(now, windowDays)

	warmed := 0
	requests := []metrics.DashboardRequest{
		{Filter: metrics.FilterContext{DateRange: &window}},
	}
	if payload.Compare {
		requests = append(requests, metrics.DashboardRequest{
			Filter:  metrics.FilterContext{DateRange: &window},
			Compare: true,
		})
	}
	for _, req := range requests {
		reqCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
		_, err := j.Service.Dashboard(reqCtx, req)
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm window", slog.Bool("compare", req.Compare), slog.Any("error", err))
			return resultErr
		}
		warmed++
	}
	j.metrics().AddWarmedWindows(warmed)

	logger.Info("completed metrics warmup", slog.Int("windows", warmed))
	return resultErr
}

// trailingWindow is the half-open window of the given length ending at the
// next midnight after now, so today's orders are included.
func trailingWindow(now time.Time, days int) metrics.DateRange {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return metrics.DateRange{From: end.AddDate(0, 0, -days), To: end}
}

func (j *MetricsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskMetricsWarmup))
	}
	return slog.Default().With(slog.String("job", TaskMetricsWarmup))
}

func (j *MetricsWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *MetricsWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
