package stationfeed

import (
	"sync"

	"github.com/chargeway/chargeway/core/demand"
)

// Store keeps a bounded window of recent observations per station. Writes
// come from the MQTT callback goroutine, reads from planning requests.
type Store struct {
	mu         sync.RWMutex
	maxSamples int
	samples    map[string][]demand.Observation
}

// NewStore creates a store keeping at most maxSamples entries per station.
func NewStore(maxSamples int) *Store {
	if maxSamples <= 0 {
		maxSamples = 12
	}
	return &Store{maxSamples: maxSamples, samples: make(map[string][]demand.Observation)}
}

// Add appends an observation, evicting the oldest beyond the window.
func (s *Store) Add(stationID string, obs demand.Observation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w := append(s.samples[stationID], obs)
	if len(w) > s.maxSamples {
		w = w[len(w)-s.maxSamples:]
	}
	s.samples[stationID] = w
}

// Recent returns a copy of the stored window for the station.
func (s *Store) Recent(stationID string) []demand.Observation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w := s.samples[stationID]
	if len(w) == 0 {
		return nil
	}
	cp := make([]demand.Observation, len(w))
	copy(cp, w)
	return cp
}
