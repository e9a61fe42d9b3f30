package routing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeway/chargeway/core/model"
	coreRouting "github.com/chargeway/chargeway/core/routing"
)

const okBody = `{"code":"Ok","routes":[{"distance":87500,"duration":4980,"geometry":{"coordinates":[[77.5946,12.9716],[77.5946,13.6016]]}}]}`

func TestOSRMRouter_Route(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/route/v1/driving/")
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	r, err := NewOSRMRouter(Config{BaseURL: srv.URL})
	require.NoError(t, err)

	leg, err := r.Route(context.Background(), model.Coordinate{Lat: 12.9716, Lon: 77.5946}, model.Coordinate{Lat: 13.6016, Lon: 77.5946}, model.StrategyFastest)
	require.NoError(t, err)
	assert.InDelta(t, 87.5, leg.DistanceKm, 0.01)
	assert.InDelta(t, 83, leg.DurationMinutes, 0.5)
	assert.Len(t, leg.Geometry, 2)
	assert.InDelta(t, 12.9716, leg.Geometry[0].Lat, 1e-9)
}

func TestOSRMRouter_RetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(okBody))
	}))
	defer srv.Close()

	r, err := NewOSRMRouter(Config{BaseURL: srv.URL, MaxAttempts: 4})
	require.NoError(t, err)
	_, err = r.Route(context.Background(), model.Coordinate{}, model.Coordinate{Lat: 1}, model.StrategyShortest)
	require.NoError(t, err)
	assert.Equal(t, int32(3), calls.Load())
}

func TestOSRMRouter_NoRouteIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","routes":[]}`))
	}))
	defer srv.Close()

	r, err := NewOSRMRouter(Config{BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = r.Route(context.Background(), model.Coordinate{}, model.Coordinate{Lat: 1}, model.StrategyShortest)
	assert.True(t, errors.Is(err, coreRouting.ErrRouteUnavailable))
}

func TestOSRMRouter_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	r, err := NewOSRMRouter(Config{BaseURL: srv.URL, MaxAttempts: 4})
	require.NoError(t, err)
	_, err = r.Route(context.Background(), model.Coordinate{}, model.Coordinate{Lat: 1}, model.StrategyShortest)
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOSRMRouter_RequiresBaseURL(t *testing.T) {
	_, err := NewOSRMRouter(Config{})
	assert.Error(t, err)
}
