package demand

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/chargeway/chargeway/core/model"
)

// bucketKey is the coarse memoization key: predictions are stable within an
// hour-of-week bucket, so wall-clock time is deliberately excluded.
type bucketKey struct {
	stationID string
	hour      int
	weekday   time.Weekday
}

type cacheEntry struct {
	pred     model.DemandPrediction
	storedAt time.Time
}

// CachedPredictor memoizes an underlying Predictor per demand bucket. The
// cache never changes a returned value, only latency: entries are written
// once per bucket and the TTL exists solely so configuration changes take
// effect without a restart. Growth is bounded by the finite key space
// (stations x 24 x 7).
type CachedPredictor struct {
	inner Predictor
	ttl   time.Duration
	now   func() time.Time

	mu      sync.RWMutex
	entries map[bucketKey]cacheEntry

	hits   atomic.Uint64
	misses atomic.Uint64
}

// NewCachedPredictor wraps inner with bucket memoization. A non-positive ttl
// disables expiry.
func NewCachedPredictor(inner Predictor, ttl time.Duration) *CachedPredictor {
	return &CachedPredictor{
		inner:   inner,
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[bucketKey]cacheEntry),
	}
}

// Predict implements Predictor.
func (c *CachedPredictor) Predict(stationID string, at time.Time) (model.DemandPrediction, error) {
	return c.memoize(stationID, at, func() (model.DemandPrediction, error) {
		return c.inner.Predict(stationID, at)
	})
}

// PredictStation implements StationPredictor. Station-record and catalog
// lookups share buckets: both are keyed by station ID and hour of week.
func (c *CachedPredictor) PredictStation(st model.ChargingStation, at time.Time) (model.DemandPrediction, error) {
	return c.memoize(st.ID, at, func() (model.DemandPrediction, error) {
		if sp, ok := c.inner.(StationPredictor); ok {
			return sp.PredictStation(st, at)
		}
		return c.inner.Predict(st.ID, at)
	})
}

func (c *CachedPredictor) memoize(stationID string, at time.Time, fetch func() (model.DemandPrediction, error)) (model.DemandPrediction, error) {
	key := bucketKey{stationID: stationID, hour: at.Hour(), weekday: at.Weekday()}

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && (c.ttl <= 0 || c.now().Sub(e.storedAt) < c.ttl) {
		c.hits.Add(1)
		p := e.pred
		p.Timestamp = at
		return p, nil
	}

	c.misses.Add(1)
	pred, err := fetch()
	if err != nil {
		return model.DemandPrediction{}, err
	}
	c.mu.Lock()
	c.entries[key] = cacheEntry{pred: pred, storedAt: c.now()}
	c.mu.Unlock()
	return pred, nil
}

// Stats returns cumulative hit and miss counts.
func (c *CachedPredictor) Stats() (hits, misses uint64) {
	return c.hits.Load(), c.misses.Load()
}
