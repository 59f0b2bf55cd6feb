// Package detector implements edge-triggered, debounced tool-change
// detection over a stream of raw tool reads. It holds no clock, no I/O,
// and no locking: State is a value, and Apply is a pure function from
// (State, reading) to (State, *Event).
package detector

// State is the debounce state for one monitored path. The zero value is
// the correct starting state: no last read, no stable tool, zero run
// length.
type State struct {
	hasLast   bool
	last      int64
	hasStable bool
	stable    int64
	run       int
}

// Event reports a confirmed tool change: the path settled on Current
// after Threshold consecutive reads, having previously settled on
// Previous. Apply never constructs an Event for the very first
// stabilization of a path (there is no Previous to report), so every
// Event that does exist carries a genuine transition.
type Event struct {
	Previous int64
	Current  int64
}

// StableTool returns the currently confirmed tool and whether one has
// been confirmed yet.
func (s State) StableTool() (int64, bool) {
	return s.stable, s.hasStable
}

// Apply folds one raw read into the debounce state. Threshold is the
// number of consecutive identical reads required before a reading is
// accepted as the new stable tool (the configured debounce count).
//
// Apply never emits an Event on the very first read for a path: the
// first read only seeds the run counter, it cannot itself be "stable"
// relative to nothing. A threshold of 1 accepts a reading as stable on
// its first occurrence (no repetition required), matching a one-read
// debounce window.
func Apply(s State, reading int64, threshold int) (State, *Event) {
	if threshold < 1 {
		threshold = 1
	}

	if s.hasStable && reading == s.stable {
		// No pending change: a read of the already-confirmed tool
		// clears any run in progress, including one left behind by a
		// rejected flicker.
		s.hasLast = true
		s.last = reading
		s.run = 0
		return s, nil
	}

	if s.hasLast && reading == s.last {
		s.run++
	} else {
		s.hasLast = true
		s.last = reading
		s.run = 1
	}

	if s.run < threshold {
		return s, nil
	}
	s.run = 0

	if !s.hasStable {
		// First-ever confirmation only arms the detector; there is no
		// prior tool to report a transition from.
		s.hasStable = true
		s.stable = reading
		return s, nil
	}

	prev := s.stable
	s.stable = reading
	return s, &Event{Previous: prev, Current: reading}
}
