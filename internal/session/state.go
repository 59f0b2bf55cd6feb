package session

import "sync/atomic"

// State publishes a connection Phase for concurrent readers. There is a
// single writer (the supervisor goroutine for a machine) and many
// readers (pollers, the heartbeat emitter).
type State struct {
	phase atomic.Int32
}

// Get returns the current phase.
func (s *State) Get() Phase {
	return Phase(s.phase.Load())
}

// Set publishes a new phase. Only the owning supervisor goroutine calls
// this.
func (s *State) Set(p Phase) {
	s.phase.Store(int32(p))
}

// Connected reports whether the session is currently usable for reads.
func (s *State) Connected() bool {
	return s.Get() == Connected
}
