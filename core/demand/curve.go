package demand

import (
	"hash/fnv"
	"time"

	"github.com/chargeway/chargeway/core/model"
)

// Hourly usage archetypes, one curve per station type. Values are fractions
// of capacity in use at that hour on a typical weekday.
var archetypeCurves = map[model.StationType][24]float64{
	// Commuter-driven: morning and evening rush peaks.
	model.StationFastCharging: {
		0.10, 0.08, 0.06, 0.05, 0.06, 0.12, 0.25, 0.45, 0.65, 0.60,
		0.45, 0.40, 0.42, 0.40, 0.38, 0.42, 0.50, 0.68, 0.75, 0.70,
		0.55, 0.40, 0.25, 0.15,
	},
	// Fleet swaps cluster around midday shift changes.
	model.StationBatterySwap: {
		0.15, 0.12, 0.10, 0.10, 0.12, 0.20, 0.30, 0.38, 0.42, 0.48,
		0.55, 0.60, 0.62, 0.60, 0.55, 0.50, 0.48, 0.50, 0.45, 0.38,
		0.32, 0.28, 0.22, 0.18,
	},
	// Residential overnight charging: load builds through the evening.
	model.StationStandard: {
		0.55, 0.50, 0.42, 0.35, 0.28, 0.22, 0.20, 0.22, 0.25, 0.28,
		0.30, 0.32, 0.33, 0.32, 0.33, 0.36, 0.42, 0.52, 0.62, 0.70,
		0.75, 0.72, 0.68, 0.60,
	},
}

var archetypePeakHours = map[model.StationType]map[int]bool{
	model.StationFastCharging: {7: true, 8: true, 9: true, 17: true, 18: true, 19: true},
	model.StationBatterySwap:  {11: true, 12: true, 13: true},
	model.StationStandard:     {19: true, 20: true, 21: true},
}

// Weekends shift demand: commuter fast charging drops, residential and
// leisure charging rises.
var archetypeWeekendFactor = map[model.StationType]float64{
	model.StationFastCharging: 0.8,
	model.StationBatterySwap:  0.95,
	model.StationStandard:     1.15,
}

// CurvePredictor produces the deterministic side of the blend from hourly
// archetype curves and a per-station base-occupancy anchor.
type CurvePredictor struct {
	stations map[string]model.ChargingStation
	cfg      Config
}

// NewCurvePredictor builds a predictor over the given station catalog.
func NewCurvePredictor(stations []model.ChargingStation, cfg Config) *CurvePredictor {
	m := make(map[string]model.ChargingStation, len(stations))
	for _, s := range stations {
		m[s.ID] = s
	}
	return &CurvePredictor{stations: m, cfg: cfg}
}

// baseOccupancy anchors each station in [0.30, 0.55] from a hash of its ID,
// so two stations of the same type still differ deterministically.
func baseOccupancy(stationID string) float64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(stationID))
	return 0.30 + 0.25*float64(h.Sum32()%1000)/999.0
}

func clampUsage(u float64) float64 {
	// Never exactly 0 or 1: keeps slot and wait-time math non-degenerate.
	if u < 0.01 {
		return 0.01
	}
	if u > 0.98 {
		return 0.98
	}
	return u
}

// archetypeFor resolves the curve parameters for a station type. Unknown or
// empty types use the standard archetype for the curve, peak hours and the
// weekend factor alike.
func archetypeFor(t model.StationType) (curve [24]float64, peaks map[int]bool, weekend float64) {
	curve, ok := archetypeCurves[t]
	if !ok {
		t = model.StationStandard
		curve = archetypeCurves[t]
	}
	return curve, archetypePeakHours[t], archetypeWeekendFactor[t]
}

// UsageFor returns the deterministic usage fraction for a station record at
// the given time. The station does not need to be in the catalog; the curve
// is chosen from its type and anchored on its ID.
func (p *CurvePredictor) UsageFor(st model.ChargingStation, at time.Time) float64 {
	curve, peaks, weekend := archetypeFor(st.Type)

	hour := at.Hour()
	usage := 0.7*curve[hour] + 0.3*baseOccupancy(st.ID)

	wd := at.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		usage *= weekend
	}
	if peaks[hour] {
		usage *= p.cfg.PeakBoost
	}
	return clampUsage(usage)
}

// Usage returns the deterministic usage fraction for a catalog station at
// the given time. The boolean reports whether the station is known.
func (p *CurvePredictor) Usage(stationID string, at time.Time) (float64, bool) {
	st, ok := p.stations[stationID]
	if !ok {
		return 0, false
	}
	return p.UsageFor(st, at), true
}

// Station returns the catalog entry backing a prediction.
func (p *CurvePredictor) Station(stationID string) (model.ChargingStation, bool) {
	st, ok := p.stations[stationID]
	return st, ok
}
