// Package session models the connection lifecycle of a single CNC
// controller session.
package session

import "toolmonitor/internal/check"

// Phase is the connection lifecycle of a controller session.
type Phase int

const (
	Disconnected Phase = iota
	Connecting
	Connected
)

func (p Phase) String() string {
	switch p {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "unknown"
	}
}

// Transition moves to the next phase, asserting the transition is one
// the supervisor actually performs. Invalid transitions only happen if
// the supervisor loop itself has a bug, so this only panics in debug
// builds.
func (p Phase) Transition(to Phase) Phase {
	valid := false
	switch p {
	case Disconnected:
		valid = to == Connecting
	case Connecting:
		valid = to == Connected || to == Disconnected
	case Connected:
		valid = to == Disconnected
	}
	check.Assertf(valid, "invalid connection phase transition %s -> %s", p, to)
	return to
}
