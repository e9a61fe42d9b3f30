package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/chargeway/chargeway/core/metrics"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	stops       prometheus.Histogram
	predictions *prometheus.CounterVec
	cacheHits   prometheus.Gauge
	cacheMisses prometheus.Gauge
}

// NewPromSink registers planner metrics on the default Prometheus registerer.
// The Prometheus server should be started separately using cfg.PrometheusAddr.
func NewPromSink(cfg coremetrics.Config) (*PromSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plan_requests_total",
		Help: "Total number of route planning requests",
	}, []string{"strategy", "feasible", "reason"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plan_duration_seconds",
		Help:    "Wall time spent assembling one route",
		Buckets: prometheus.DefBuckets,
	}, []string{"strategy"})
	stops := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plan_charging_stops",
		Help:    "Charging stops per feasible route",
		Buckets: []float64{0, 1, 2, 3, 5, 8, 10},
	})
	predictions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "demand_predictions_total",
		Help: "Standalone demand predictions served",
	}, []string{"status"})
	cacheHits := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prediction_cache_hits_total",
		Help: "Cumulative prediction cache hits",
	})
	cacheMisses := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "prediction_cache_misses_total",
		Help: "Cumulative prediction cache misses",
	})

	s := &PromSink{
		plans:       plans,
		latency:     latency,
		stops:       stops,
		predictions: predictions,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
	}
	for _, c := range []prometheus.Collector{plans, latency, stops, predictions, cacheHits, cacheMisses} {
		if err := register(reg, c); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func register(reg prometheus.Registerer, c prometheus.Collector) error {
	if err := reg.Register(c); err != nil {
		if _, ok := err.(prometheus.AlreadyRegisteredError); ok {
			return nil
		}
		return err
	}
	return nil
}

// RecordPlanResult increments the plan counter and latency histogram.
func (s *PromSink) RecordPlanResult(res coremetrics.PlanResult) error {
	s.plans.WithLabelValues(res.Strategy.String(), strconv.FormatBool(res.Feasible), res.Reason).Inc()
	s.latency.WithLabelValues(res.Strategy.String()).Observe(res.Elapsed.Seconds())
	if res.Feasible {
		s.stops.Observe(float64(res.ChargingStops))
	}
	return nil
}

// RecordPrediction counts a served demand prediction by status.
func (s *PromSink) RecordPrediction(ev coremetrics.PredictionEvent) error {
	s.predictions.WithLabelValues(ev.Status).Inc()
	return nil
}

// RecordCacheStats exports the prediction cache counters.
func (s *PromSink) RecordCacheStats(hits, misses uint64) error {
	s.cacheHits.Set(float64(hits))
	s.cacheMisses.Set(float64(misses))
	return nil
}
