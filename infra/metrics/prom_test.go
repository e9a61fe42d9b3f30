package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/chargeway/chargeway/core/metrics"
	"github.com/chargeway/chargeway/core/model"
)

func TestPromSink_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	err = sink.RecordPlanResult(coremetrics.PlanResult{
		PlanID:        "p1",
		Strategy:      model.StrategyFastest,
		Feasible:      true,
		ChargingStops: 2,
		Elapsed:       120 * time.Millisecond,
		Time:          time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, sink.RecordPrediction(coremetrics.PredictionEvent{StationID: "s1", Status: "busy"}))
	require.NoError(t, sink.RecordCacheStats(10, 3))

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["plan_requests_total"])
	assert.True(t, names["plan_duration_seconds"])
	assert.True(t, names["demand_predictions_total"])
	assert.True(t, names["prediction_cache_hits_total"])
}

func TestPromSink_DoubleRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	assert.NoError(t, err, "re-registration must be tolerated")
}
