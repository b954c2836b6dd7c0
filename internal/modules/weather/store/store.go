// Package store holds the single live Observation shared between the poller
// and the query handlers.
package store

import (
	"encoding/json"
	"sync"

	"localweather/internal/modules/weather/types"
)

// Store is the current-reading container. The poller replaces the whole
// Observation on each successful cycle; readers always see a complete
// before-or-after value, never a partial one.
type Store struct {
	mu     sync.RWMutex
	obs    *types.Observation
	raw    json.RawMessage
	loaded bool
}

func New() *Store {
	return &Store{obs: &types.Observation{}}
}

// Replace swaps in a new Observation and marks the store loaded. Only the
// poller calls this.
func (s *Store) Replace(obs *types.Observation) {
	s.mu.Lock()
	s.obs = obs
	s.loaded = true
	s.mu.Unlock()
}

// Current returns the live Observation. Before the first successful poll it
// returns the zero-valued sentinel. Callers must not mutate the result.
func (s *Store) Current() *types.Observation {
	s.mu.RLock()
	obs := s.obs
	s.mu.RUnlock()
	return obs
}

// Loaded reports whether at least one poll cycle has published data.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	return loaded
}

// SetRaw stores the last raw device payload for the debugging endpoint.
func (s *Store) SetRaw(raw json.RawMessage) {
	s.mu.Lock()
	s.raw = raw
	s.mu.Unlock()
}

// Raw returns the last raw device payload, or nil before the first fetch.
func (s *Store) Raw() json.RawMessage {
	s.mu.RLock()
	raw := s.raw
	s.mu.RUnlock()
	return raw
}
