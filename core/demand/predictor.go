package demand

import (
	"time"

	"github.com/chargeway/chargeway/core/model"
)

// Predictor forecasts station demand for a point in time. Predict resolves
// the station through the configured catalog.
type Predictor interface {
	Predict(stationID string, at time.Time) (model.DemandPrediction, error)
}

// StationPredictor forecasts demand from a full station record, so callers
// may supply stations that are not in any configured catalog. The planner
// prefers this path for its per-call candidate sets.
type StationPredictor interface {
	PredictStation(st model.ChargingStation, at time.Time) (model.DemandPrediction, error)
}

// Estimator is the advisory learned side of the blend. Estimate returns a
// usage fraction and whether an estimate is available for the station; it
// never fails hard.
type Estimator interface {
	Estimate(stationID string, at time.Time) (float64, bool)
}

// NopEstimator never has an estimate. The blend then runs fully on the
// deterministic curve.
type NopEstimator struct{}

func (NopEstimator) Estimate(string, time.Time) (float64, bool) { return 0, false }
