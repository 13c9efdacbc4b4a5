package engine

import (
	"sync"
	"sync/atomic"
)

// Params is an immutable snapshot of the four user-facing parameters.
type Params struct {
	DelayMs  float64 // delay time in milliseconds
	Feedback float64 // feedback in percent
	Mix      float64 // wet amount in percent
	Bypass   bool

	version uint64
}

// Clamped returns a copy with every value forced into its valid range.
func (p Params) Clamped() Params {
	p.DelayMs = clampDelay(p.DelayMs)
	p.Feedback = clampPercent(p.Feedback)
	p.Mix = clampPercent(p.Mix)
	return p
}

// Version identifies the snapshot. It increases with every store.
func (p *Params) Version() uint64 {
	return p.version
}

// ParamStore publishes parameter snapshots from control goroutines to the
// audio goroutine. Writers are serialized by a mutex; the reader side is a
// single atomic load and never blocks.
type ParamStore struct {
	current atomic.Pointer[Params]

	mu      sync.Mutex
	version uint64
}

// NewParamStore creates a store holding initial.
func NewParamStore(initial Params) *ParamStore {
	s := &ParamStore{}
	s.Store(initial)
	return s
}

// Load returns the latest snapshot. Safe to call from the audio goroutine.
// The returned value must not be modified.
func (s *ParamStore) Load() *Params {
	return s.current.Load()
}

// Store publishes a new snapshot.
func (s *ParamStore) Store(p Params) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.publish(p)
}

// Update applies fn to a copy of the latest snapshot and publishes the result.
func (s *ParamStore) Update(fn func(p *Params)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var next Params
	if cur := s.current.Load(); cur != nil {
		next = *cur
	}
	fn(&next)
	s.publish(next)
}

func (s *ParamStore) publish(p Params) {
	s.version++
	next := p.Clamped()
	next.version = s.version
	s.current.Store(&next)
}
