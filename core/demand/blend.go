package demand

import (
	"fmt"
	"math"
	"time"

	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/model"
)

// Default slot counts when a catalog entry does not declare capacity.
var defaultCapacity = map[model.StationType]int{
	model.StationFastCharging: 8,
	model.StationBatterySwap:  4,
	model.StationStandard:     4,
}

// BlendingPredictor composes the deterministic curve with an advisory
// learned estimate using fixed weights. When the learned side has nothing
// the full weight falls back to the curve; prediction never fails because of
// a missing estimator.
type BlendingPredictor struct {
	curve *CurvePredictor
	est   Estimator
	cfg   Config
	log   logger.Logger
}

// NewBlendingPredictor builds the production predictor. A nil estimator is
// replaced by NopEstimator and a nil logger by a no-op logger.
func NewBlendingPredictor(stations []model.ChargingStation, cfg Config, est Estimator, log logger.Logger) *BlendingPredictor {
	if est == nil {
		est = NopEstimator{}
	}
	if log == nil {
		log = logger.Nop{}
	}
	return &BlendingPredictor{
		curve: NewCurvePredictor(stations, cfg),
		est:   est,
		cfg:   cfg,
		log:   log,
	}
}

// Predict implements Predictor. The station must be in the configured
// catalog.
func (p *BlendingPredictor) Predict(stationID string, at time.Time) (model.DemandPrediction, error) {
	st, ok := p.curve.Station(stationID)
	if !ok {
		return model.DemandPrediction{}, fmt.Errorf("demand: unknown station %q", stationID)
	}
	return p.PredictStation(st, at)
}

// PredictStation implements StationPredictor. The caller's record is the
// source of truth for type and capacity, so per-call candidate sets work
// without a catalog entry.
func (p *BlendingPredictor) PredictStation(st model.ChargingStation, at time.Time) (model.DemandPrediction, error) {
	det := p.curve.UsageFor(st, at)

	usage := det
	confidence := 0.7
	if learned, has := p.est.Estimate(st.ID, at); has {
		usage = p.cfg.DeterministicWeight*det + p.cfg.LearnedWeight*learned
		// Confidence follows agreement between the two sides.
		confidence = 0.98 - math.Min(0.6, 1.5*math.Abs(det-learned))
		p.log.Debugw("blended demand estimate", map[string]any{
			"station_id": st.ID,
			"curve":      det,
			"learned":    learned,
			"usage":      usage,
		})
	}
	usage = clampUsage(usage)
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 0.98 {
		confidence = 0.98
	}

	capacity := st.Capacity
	if capacity <= 0 {
		capacity = defaultCapacity[st.Type]
		if capacity == 0 {
			capacity = 4
		}
	}
	slots := int(math.Floor(float64(capacity) * (1 - usage)))
	if slots < 0 {
		slots = 0
	}

	return model.DemandPrediction{
		StationID:       st.ID,
		Timestamp:       at,
		PredictedUsage:  usage,
		Confidence:      confidence,
		AvailableSlots:  slots,
		WaitTimeMinutes: waitTime(usage, slots),
		Status:          model.StatusForUsage(usage),
	}, nil
}

// waitTime is monotonic in usage: zero while more than two slots remain,
// rising steeply as slots run out, with an extra turnover penalty above 95%
// usage when even a freed slot implies queueing.
func waitTime(usage float64, slots int) float64 {
	if slots > 2 {
		return 0
	}
	w := float64(3-slots) * 12 * (0.5 + usage)
	if usage > 0.95 {
		w += (usage - 0.95) * 200
	}
	return w
}
