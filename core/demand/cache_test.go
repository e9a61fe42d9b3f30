package demand

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chargeway/chargeway/core/model"
)

type countingPredictor struct {
	calls int
	fail  bool
}

func (c *countingPredictor) Predict(id string, at time.Time) (model.DemandPrediction, error) {
	c.calls++
	if c.fail {
		return model.DemandPrediction{}, errors.New("boom")
	}
	return model.DemandPrediction{StationID: id, Timestamp: at, PredictedUsage: 0.5, Status: model.StatusModerate}, nil
}

func TestCache_HitWithinBucket(t *testing.T) {
	inner := &countingPredictor{}
	c := NewCachedPredictor(inner, 5*time.Minute)

	at := time.Date(2026, 3, 4, 9, 10, 0, 0, time.UTC)
	_, err := c.Predict("s1", at)
	require.NoError(t, err)
	// Same hour-of-week bucket, different wall minute.
	p, err := c.Predict("s1", at.Add(20*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, at.Add(20*time.Minute), p.Timestamp)
	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCache_SeparateBuckets(t *testing.T) {
	inner := &countingPredictor{}
	c := NewCachedPredictor(inner, 0)

	at := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	_, _ = c.Predict("s1", at)
	_, _ = c.Predict("s1", at.Add(time.Hour))      // different hour
	_, _ = c.Predict("s1", at.Add(24*time.Hour))   // different weekday
	_, _ = c.Predict("s2", at)                     // different station
	assert.Equal(t, 4, inner.calls)
}

func TestCache_StationRecordSharesBuckets(t *testing.T) {
	inner := &countingPredictor{}
	c := NewCachedPredictor(inner, 5*time.Minute)
	at := time.Date(2026, 3, 4, 9, 15, 0, 0, time.UTC)
	st := model.ChargingStation{ID: "s1", Type: model.StationFastCharging, Capacity: 8}

	_, err := c.PredictStation(st, at)
	require.NoError(t, err)
	_, err = c.Predict("s1", at.Add(20*time.Minute))
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "record and id lookups must share a bucket")
	hits, misses := c.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestCache_TTLForcesRecompute(t *testing.T) {
	inner := &countingPredictor{}
	c := NewCachedPredictor(inner, time.Minute)
	base := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	wall := base
	c.now = func() time.Time { return wall }

	_, _ = c.Predict("s1", base)
	wall = wall.Add(2 * time.Minute)
	_, _ = c.Predict("s1", base)
	assert.Equal(t, 2, inner.calls)
}

func TestCache_ErrorNotCached(t *testing.T) {
	inner := &countingPredictor{fail: true}
	c := NewCachedPredictor(inner, time.Minute)
	_, err := c.Predict("s1", time.Now())
	require.Error(t, err)
	inner.fail = false
	_, err = c.Predict("s1", time.Now())
	require.NoError(t, err)
}
