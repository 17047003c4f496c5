package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskMetricsWarmup precomputes dashboard metrics so the first request
	// after an idle period hits a warm cache.
	TaskMetricsWarmup = "metrics:warmup"
)

// MetricsWarmupPayload selects the dashboard windows to precompute.
type MetricsWarmupPayload struct {
	// WindowDays is the length of the trailing window ending today. Zero
	// falls back to the worker default.
	WindowDays int `json:"window_days"`
	// Compare also warms the prior-period comparison variant.
	Compare bool `json:"compare"`
}

// NewMetricsWarmupTask constructs an Asynq task for dashboard warmup.
func NewMetricsWarmupTask(payload MetricsWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskMetricsWarmup, data), nil
}
