// Package metrics defines the observability contracts the planner and API
// record into. Implementations (Prometheus, InfluxDB) live in infra.
package metrics

import (
	"time"

	"github.com/chargeway/chargeway/core/model"
)

// PlanResult is the per-plan record sent to sinks.
type PlanResult struct {
	PlanID               string
	Strategy             model.Strategy
	Feasible             bool
	Reason               string // infeasible reason, empty when feasible
	ChargingStops        int
	TotalDistanceKm      float64
	TotalDurationMinutes float64
	Elapsed              time.Duration
	Time                 time.Time
}

// MetricsSink records plan outcomes for observability purposes.
type MetricsSink interface {
	RecordPlanResult(res PlanResult) error
}

// PredictionEvent is a standalone demand query record.
type PredictionEvent struct {
	StationID  string
	Usage      float64
	Confidence float64
	Status     string
	Time       time.Time
}

// PredictionRecorder optionally records demand predictions.
type PredictionRecorder interface {
	RecordPrediction(ev PredictionEvent) error
}

// CacheStatsRecorder optionally records prediction cache counters.
type CacheStatsRecorder interface {
	RecordCacheStats(hits, misses uint64) error
}

// NopSink ignores all metrics.
type NopSink struct{}

func (NopSink) RecordPlanResult(PlanResult) error       { return nil }
func (NopSink) RecordPrediction(PredictionEvent) error  { return nil }
func (NopSink) RecordCacheStats(uint64, uint64) error   { return nil }
