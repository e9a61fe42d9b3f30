package planner

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/geo"
	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/model"
)

// scoreWeights holds the weighted-sum coefficients for one strategy.
type scoreWeights struct {
	availability float64
	wait         float64
	efficiency   float64
	power        float64
	safety       float64
}

var strategyWeights = map[model.Strategy]scoreWeights{
	model.StrategyFastest:      {availability: 0.15, wait: 0.30, efficiency: 0.15, power: 0.30, safety: 0.10},
	model.StrategyShortest:     {availability: 0.15, wait: 0.15, efficiency: 0.45, power: 0.10, safety: 0.15},
	model.StrategyLeastTraffic: {availability: 0.35, wait: 0.15, efficiency: 0.10, power: 0.05, safety: 0.35},
}

// Intercity candidates more than this many degrees off the direct bearing
// are considered outside the route corridor.
const corridorMaxBearingDelta = 75.0

// ScoredStation is one ranked candidate with its score breakdown inputs.
type ScoredStation struct {
	Station        model.ChargingStation
	Score          float64
	Prediction     model.DemandPrediction
	DistanceKm     float64 // from current position to the station
	DetourFraction float64
}

// StationScorer ranks candidate charging stations for one leg using demand
// predictions, detour cost and strategy weighting.
type StationScorer struct {
	predictor demand.Predictor
	log       logger.Logger
}

// NewStationScorer builds a scorer over the given predictor.
func NewStationScorer(pred demand.Predictor, log logger.Logger) *StationScorer {
	return &StationScorer{predictor: pred, log: log}
}

// Rank returns eligible candidates in descending score order. A candidate is
// eligible when it is reachable within remainingRangeKm and routing through
// it stays inside the detour budget. Ties break by ascending distance from
// the current position, which makes the ranking a total order.
func (s *StationScorer) Rank(from, dest model.Coordinate, candidates []model.ChargingStation, strategy model.Strategy, remainingRangeKm, maxDetourFraction float64, intercity bool, at time.Time) []ScoredStation {
	direct := geo.DistanceKm(from, dest)
	if direct == 0 {
		return nil
	}
	directBearing := geo.Bearing(from, dest)

	var eligible []ScoredStation
	var powers []float64
	for _, st := range candidates {
		dTo := geo.DistanceKm(from, st.Coordinates)
		if dTo > remainingRangeKm {
			continue
		}
		via := dTo + geo.DistanceKm(st.Coordinates, dest)
		detour := via/direct - 1
		if detour > maxDetourFraction {
			continue
		}
		if intercity && bearingDelta(directBearing, geo.Bearing(from, st.Coordinates)) > corridorMaxBearingDelta && dTo > 1 {
			continue
		}

		pred, err := s.predict(st, at)
		if err != nil {
			if s.log != nil {
				s.log.Warnf("skipping station %s: %v", st.ID, err)
			}
			continue
		}
		eligible = append(eligible, ScoredStation{
			Station:        st,
			Prediction:     pred,
			DistanceKm:     dTo,
			DetourFraction: math.Max(0, detour),
		})
		powers = append(powers, st.ChargingPowerKW)
	}
	if len(eligible) == 0 {
		return nil
	}

	maxPower := floats.Max(powers)
	w := strategyWeights[strategy]
	for i := range eligible {
		eligible[i].Score = scoreStation(eligible[i], w, maxPower)
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].Score != eligible[j].Score {
			return eligible[i].Score > eligible[j].Score
		}
		if eligible[i].DistanceKm != eligible[j].DistanceKm {
			return eligible[i].DistanceKm < eligible[j].DistanceKm
		}
		return eligible[i].Station.ID < eligible[j].Station.ID
	})
	return eligible
}

// predict resolves demand from the candidate record itself when the
// predictor supports it. Candidates are caller-supplied per call and need
// not exist in any configured catalog.
func (s *StationScorer) predict(st model.ChargingStation, at time.Time) (model.DemandPrediction, error) {
	if sp, ok := s.predictor.(demand.StationPredictor); ok {
		return sp.PredictStation(st, at)
	}
	return s.predictor.Predict(st.ID, at)
}

func scoreStation(c ScoredStation, w scoreWeights, maxPowerKW float64) float64 {
	capacity := c.Station.Capacity
	if capacity <= 0 {
		capacity = c.Prediction.AvailableSlots + 1
	}
	availability := float64(c.Prediction.AvailableSlots) / float64(capacity)
	wait := math.Max(0, 1-c.Prediction.WaitTimeMinutes/60)
	efficiency := math.Max(0, 1-c.DetourFraction)
	power := 0.0
	if maxPowerKW > 0 {
		power = c.Station.ChargingPowerKW / maxPowerKW
	}
	safety := c.Station.SafetyRating / 5

	return availability*w.availability + wait*w.wait + efficiency*w.efficiency +
		power*w.power + safety*w.safety
}

func bearingDelta(a, b float64) float64 {
	d := math.Abs(a - b)
	if d > 180 {
		d = 360 - d
	}
	return d
}
