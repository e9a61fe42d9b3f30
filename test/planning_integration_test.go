package test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/events"
	"github.com/chargeway/chargeway/core/logger"
	coremetrics "github.com/chargeway/chargeway/core/metrics"
	"github.com/chargeway/chargeway/core/model"
	"github.com/chargeway/chargeway/core/planner"
	"github.com/chargeway/chargeway/core/routing"
	"github.com/chargeway/chargeway/infra/metrics"
	"github.com/chargeway/chargeway/internal/eventbus"
)

func highwayCatalog() []model.ChargingStation {
	stations := make([]model.ChargingStation, 0, 5)
	for i := 0; i < 5; i++ {
		stations = append(stations, model.ChargingStation{
			ID:              fmt.Sprintf("hw-%d", i+1),
			Coordinates:     model.Coordinate{Lat: 12.9716 + float64(i+1)*0.55, Lon: 77.5946},
			Type:            model.StationFastCharging,
			ChargingPowerKW: 120,
			Capacity:        8,
			SafetyRating:    4,
		})
	}
	return stations
}

func newIntegrationPlanner(t *testing.T, catalog []model.ChargingStation, sink coremetrics.MetricsSink, bus eventbus.EventBus) *planner.Planner {
	t.Helper()
	dcfg := demand.Config{}
	dcfg.SetDefaults()
	pred := demand.NewCachedPredictor(
		demand.NewBlendingPredictor(catalog, dcfg, demand.NopEstimator{}, logger.Nop{}),
		time.Duration(dcfg.CacheTTLSeconds)*time.Second,
	)
	pcfg := planner.Config{}
	pcfg.SetDefaults()
	pl, err := planner.NewPlanner(routing.NewStaticRouter(), pred, pcfg, logger.Nop{})
	require.NoError(t, err)
	if sink != nil {
		pl.SetMetricsSink(sink)
	}
	if bus != nil {
		pl.SetEventBus(bus)
	}
	return pl
}

// TestPlanningPipeline exercises the planner with live metrics and event
// wiring, the way the service assembles it.
func TestPlanningPipeline(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	require.NoError(t, err)

	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()

	var (
		mu       sync.Mutex
		received []eventbus.Event
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		for ev := range sub {
			mu.Lock()
			received = append(received, ev)
			mu.Unlock()
		}
	}()

	catalog := highwayCatalog()
	pl := newIntegrationPlanner(t, catalog, sink, bus)

	route, err := pl.Plan(context.Background(), planner.PlanRequest{
		Origin:      model.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: model.Coordinate{Lat: 15.8545, Lon: 77.5946},
		Vehicle:     model.VehicleState{BatteryPercent: 40, TotalRangeKm: 312},
		Strategy:    model.StrategyFastest,
		Stations:    catalog,
		DepartAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.True(t, route.Feasible)
	require.NotEmpty(t, route.ChargingStops)

	// Segment continuity across the whole route.
	for i := 1; i < len(route.Segments); i++ {
		assert.Equal(t, route.Segments[i-1].To, route.Segments[i].From)
	}

	bus.Unsubscribe(sub)
	<-done

	mu.Lock()
	defer mu.Unlock()
	var sawSelection, sawFeasible bool
	for _, ev := range received {
		switch e := ev.(type) {
		case events.StationSelectedEvent:
			sawSelection = true
			assert.Equal(t, route.PlanID, e.PlanID)
		case events.PlanStageEvent:
			if e.Stage == "feasible" {
				sawFeasible = true
			}
		}
	}
	assert.True(t, sawSelection, "expected a station selection event")
	assert.True(t, sawFeasible, "expected a feasible stage event")

	mfs, err := reg.Gather()
	require.NoError(t, err)
	names := make(map[string]bool)
	for _, mf := range mfs {
		names[mf.GetName()] = true
	}
	assert.True(t, names["plan_requests_total"])
	assert.True(t, names["plan_duration_seconds"])
}

// TestPlanningInfeasibleRecorded verifies infeasible outcomes flow into the
// metrics sink with their reason label.
func TestPlanningInfeasibleRecorded(t *testing.T) {
	var (
		mu      sync.Mutex
		results []coremetrics.PlanResult
	)
	sink := recordFunc(func(res coremetrics.PlanResult) error {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, res)
		return nil
	})

	pl := newIntegrationPlanner(t, nil, sink, nil)
	_, err := pl.Plan(context.Background(), planner.PlanRequest{
		Origin:      model.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: model.Coordinate{Lat: 19.0760, Lon: 72.8777},
		Vehicle:     model.VehicleState{BatteryPercent: 50, TotalRangeKm: 300},
	})
	ie, ok := planner.AsInfeasible(err)
	require.True(t, ok)
	require.Equal(t, planner.ReasonNoReachableStation, ie.Reason)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 1)
	assert.False(t, results[0].Feasible)
	assert.Equal(t, string(planner.ReasonNoReachableStation), results[0].Reason)
}

// TestPredictionCacheWarmsAcrossPlans checks that repeated planning against
// the same catalog hits the prediction cache.
func TestPredictionCacheWarmsAcrossPlans(t *testing.T) {
	dcfg := demand.Config{}
	dcfg.SetDefaults()
	catalog := highwayCatalog()
	cache := demand.NewCachedPredictor(
		demand.NewBlendingPredictor(catalog, dcfg, demand.NopEstimator{}, logger.Nop{}),
		time.Duration(dcfg.CacheTTLSeconds)*time.Second,
	)
	pcfg := planner.Config{}
	pcfg.SetDefaults()
	pl, err := planner.NewPlanner(routing.NewStaticRouter(), cache, pcfg, logger.Nop{})
	require.NoError(t, err)

	req := planner.PlanRequest{
		Origin:      model.Coordinate{Lat: 12.9716, Lon: 77.5946},
		Destination: model.Coordinate{Lat: 15.8545, Lon: 77.5946},
		Vehicle:     model.VehicleState{BatteryPercent: 40, TotalRangeKm: 312},
		Stations:    catalog,
		DepartAt:    time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC),
	}
	first, err := pl.Plan(context.Background(), req)
	require.NoError(t, err)
	second, err := pl.Plan(context.Background(), req)
	require.NoError(t, err)

	hits, misses := cache.Stats()
	assert.Greater(t, hits, uint64(0), "second plan must reuse cached buckets")
	assert.Greater(t, misses, uint64(0))

	// Identical inputs, identical plan apart from the id.
	assert.Equal(t, first.TotalDistanceKm, second.TotalDistanceKm)
	assert.Equal(t, len(first.Segments), len(second.Segments))
	assert.NotEqual(t, first.PlanID, second.PlanID)
}

type recordFunc func(coremetrics.PlanResult) error

func (f recordFunc) RecordPlanResult(res coremetrics.PlanResult) error { return f(res) }
