package metrics

import (
	"errors"

	coremetrics "github.com/chargeway/chargeway/core/metrics"
)

// MultiSink fans metrics out to several sinks. Errors are collected, not
// short-circuited: one failing sink must not starve the others.
type MultiSink struct {
	sinks []coremetrics.MetricsSink
}

// NewMultiSink combines the given sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{sinks: sinks}
}

// RecordPlanResult forwards to every sink.
func (m *MultiSink) RecordPlanResult(res coremetrics.PlanResult) error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.RecordPlanResult(res); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// RecordPrediction forwards to every sink implementing PredictionRecorder.
func (m *MultiSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.PredictionRecorder); ok {
			if err := r.RecordPrediction(ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}

// RecordCacheStats forwards to every sink implementing CacheStatsRecorder.
func (m *MultiSink) RecordCacheStats(hits, misses uint64) error {
	var errs []error
	for _, s := range m.sinks {
		if r, ok := s.(coremetrics.CacheStatsRecorder); ok {
			if err := r.RecordCacheStats(hits, misses); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
