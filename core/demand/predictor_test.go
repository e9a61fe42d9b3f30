package demand

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeway/chargeway/core/model"
)

func testStations() []model.ChargingStation {
	return []model.ChargingStation{
		{ID: "fast-1", Type: model.StationFastCharging, ChargingPowerKW: 150, Capacity: 8, SafetyRating: 4.5},
		{ID: "swap-1", Type: model.StationBatterySwap, ChargingPowerKW: 80, Capacity: 4, SafetyRating: 4.0},
		{ID: "std-1", Type: model.StationStandard, ChargingPowerKW: 22, Capacity: 4, SafetyRating: 3.5},
	}
}

func defaultConfig() Config {
	var cfg Config
	cfg.SetDefaults()
	return cfg
}

func TestPredict_Deterministic(t *testing.T) {
	p := NewBlendingPredictor(testStations(), defaultConfig(), nil, nil)
	at := time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)

	first, err := p.Predict("fast-1", at)
	require.NoError(t, err)
	second, err := p.Predict("fast-1", at)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestPredict_UsageClamped(t *testing.T) {
	p := NewBlendingPredictor(testStations(), defaultConfig(), nil, nil)
	for hour := 0; hour < 24; hour++ {
		at := time.Date(2026, 3, 4, hour, 0, 0, 0, time.UTC)
		for _, id := range []string{"fast-1", "swap-1", "std-1"} {
			pred, err := p.Predict(id, at)
			require.NoError(t, err)
			if pred.PredictedUsage < 0.01 || pred.PredictedUsage > 0.98 {
				t.Fatalf("usage %v outside [0.01,0.98] for %s at %d", pred.PredictedUsage, id, hour)
			}
		}
	}
}

func TestPredict_UnknownStation(t *testing.T) {
	p := NewBlendingPredictor(testStations(), defaultConfig(), nil, nil)
	_, err := p.Predict("nope", time.Now())
	assert.Error(t, err)
}

func TestPredict_PeakHourBoost(t *testing.T) {
	p := NewCurvePredictor(testStations(), defaultConfig())
	// Wednesday: 18:00 is a declared fast-charging peak, 14:00 is not.
	peak := time.Date(2026, 3, 4, 18, 0, 0, 0, time.UTC)
	offPeak := time.Date(2026, 3, 4, 14, 0, 0, 0, time.UTC)

	up, ok := p.Usage("fast-1", peak)
	require.True(t, ok)
	uo, ok := p.Usage("fast-1", offPeak)
	require.True(t, ok)
	assert.Greater(t, up, uo)
}

func TestPredict_WeekendShift(t *testing.T) {
	p := NewCurvePredictor(testStations(), defaultConfig())
	wed := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	sat := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)

	uw, _ := p.Usage("fast-1", wed)
	us, _ := p.Usage("fast-1", sat)
	// Commuter fast charging drops on weekends.
	assert.Less(t, us, uw)

	uw, _ = p.Usage("std-1", wed)
	us, _ = p.Usage("std-1", sat)
	assert.Greater(t, us, uw)
}

type frozenSource struct {
	obs map[string][]Observation
}

func (f frozenSource) Recent(id string) []Observation { return f.obs[id] }

func TestPredictStation_OutsideCatalog(t *testing.T) {
	p := NewBlendingPredictor(nil, defaultConfig(), nil, nil)
	at := time.Date(2026, 3, 4, 18, 30, 0, 0, time.UTC)

	st := model.ChargingStation{ID: "roadside-1", Type: model.StationFastCharging, ChargingPowerKW: 120, Capacity: 8}
	pred, err := p.PredictStation(st, at)
	require.NoError(t, err)
	assert.Equal(t, "roadside-1", pred.StationID)
	assert.GreaterOrEqual(t, pred.PredictedUsage, 0.01)
	assert.LessOrEqual(t, pred.PredictedUsage, 0.98)

	// Catalog lookup by the same ID still fails: the record is the source.
	_, err = p.Predict("roadside-1", at)
	assert.Error(t, err)
}

func TestPredict_UntypedStationWeekend(t *testing.T) {
	p := NewBlendingPredictor(nil, defaultConfig(), nil, nil)
	sat := time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC)

	untyped := model.ChargingStation{ID: "blr-x", Capacity: 4}
	typed := untyped
	typed.Type = model.StationStandard

	a, err := p.PredictStation(untyped, sat)
	require.NoError(t, err)
	b, err := p.PredictStation(typed, sat)
	require.NoError(t, err)

	// A missing type falls back to the standard archetype end to end; the
	// weekend factor must not zero out the usage.
	assert.Equal(t, b.PredictedUsage, a.PredictedUsage)
	assert.Greater(t, a.PredictedUsage, 0.1)
}

func TestPredict_LearnedBlend(t *testing.T) {
	at := time.Date(2026, 3, 4, 3, 0, 0, 0, time.UTC)
	src := frozenSource{obs: map[string][]Observation{
		"fast-1": {{Usage: 0.95, ReportedAt: at.Add(-5 * time.Minute)}},
	}}
	est := NewTelemetryEstimator(src, time.Hour)

	blended := NewBlendingPredictor(testStations(), defaultConfig(), est, nil)
	curveOnly := NewBlendingPredictor(testStations(), defaultConfig(), nil, nil)

	pb, err := blended.Predict("fast-1", at)
	require.NoError(t, err)
	pc, err := curveOnly.Predict("fast-1", at)
	require.NoError(t, err)

	// A high live reading at 03:00 must pull usage above the quiet curve.
	assert.Greater(t, pb.PredictedUsage, pc.PredictedUsage)
	// Large disagreement lowers confidence versus the fixed fallback value.
	assert.Less(t, pb.Confidence, 0.98)
}

func TestPredict_GracefulDegradation(t *testing.T) {
	at := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	// Estimator whose source has no samples behaves exactly like no estimator.
	est := NewTelemetryEstimator(frozenSource{}, time.Hour)
	withEst := NewBlendingPredictor(testStations(), defaultConfig(), est, nil)
	without := NewBlendingPredictor(testStations(), defaultConfig(), nil, nil)

	a, err := withEst.Predict("swap-1", at)
	require.NoError(t, err)
	b, err := without.Predict("swap-1", at)
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestWaitTime_Monotonic(t *testing.T) {
	if waitTime(0.3, 5) != 0 {
		t.Fatal("more than two free slots should mean no wait")
	}
	w2 := waitTime(0.7, 2)
	w1 := waitTime(0.8, 1)
	w0 := waitTime(0.9, 0)
	if !(w2 < w1 && w1 < w0) {
		t.Fatalf("wait must rise as slots run out: %v %v %v", w2, w1, w0)
	}
	// Turnover penalty above 95% usage even with zero slots.
	if waitTime(0.98, 0) <= waitTime(0.94, 0) {
		t.Fatal("expected turnover penalty above 0.95 usage")
	}
}

func TestStatusThresholds(t *testing.T) {
	p := NewBlendingPredictor(testStations(), defaultConfig(), nil, nil)
	pred, err := p.Predict("std-1", time.Date(2026, 3, 7, 20, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, model.StatusForUsage(pred.PredictedUsage), pred.Status)
	assert.GreaterOrEqual(t, pred.AvailableSlots, 0)
}
