package demand

import (
	"time"

	"gonum.org/v1/gonum/stat"
)

// Observation is one reported occupancy sample for a station.
type Observation struct {
	Usage      float64
	ReportedAt time.Time
}

// ObservationSource exposes recent occupancy samples per station. The MQTT
// station feed implements it; tests use a frozen in-memory map.
type ObservationSource interface {
	Recent(stationID string) []Observation
}

// TelemetryEstimator derives an advisory usage estimate from live station
// telemetry. Samples older than the horizon are ignored; with no usable
// samples it simply reports no estimate.
type TelemetryEstimator struct {
	source  ObservationSource
	horizon time.Duration
}

// NewTelemetryEstimator wraps an observation source. A non-positive horizon
// defaults to two hours.
func NewTelemetryEstimator(src ObservationSource, horizon time.Duration) *TelemetryEstimator {
	if horizon <= 0 {
		horizon = 2 * time.Hour
	}
	return &TelemetryEstimator{source: src, horizon: horizon}
}

// Estimate implements Estimator. Recent samples are averaged with weights
// decaying linearly with age relative to the query time.
func (e *TelemetryEstimator) Estimate(stationID string, at time.Time) (float64, bool) {
	if e.source == nil {
		return 0, false
	}
	obs := e.source.Recent(stationID)
	if len(obs) == 0 {
		return 0, false
	}
	var values, weights []float64
	for _, o := range obs {
		age := at.Sub(o.ReportedAt)
		if age < 0 || age > e.horizon {
			continue
		}
		values = append(values, o.Usage)
		weights = append(weights, 1-age.Seconds()/e.horizon.Seconds())
	}
	if len(values) == 0 {
		return 0, false
	}
	est := stat.Mean(values, weights)
	return clampUsage(est), true
}
