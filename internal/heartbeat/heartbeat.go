// Package heartbeat emits a periodic status snapshot for a machine.
// Emission is stateless: each tick independently gathers the current
// connection and per-path status and publishes it, with no causal
// ordering guarantee relative to tool-change or error events.
package heartbeat

import (
	"context"
	"time"

	"toolmonitor/internal/clock"
	"toolmonitor/internal/poller"
	"toolmonitor/internal/publisher"
	"toolmonitor/internal/session"
)

// Snapshotter reports the status of one monitored path.
type Snapshotter interface {
	Status() poller.Snapshot
}

// Emitter periodically publishes a machine's heartbeat.
type Emitter struct {
	MachineID string
	IP        string
	Interval  time.Duration
	ConnState *session.State
	Publisher publisher.Publisher
	Clock     clock.Clock
	Paths     []Snapshotter
}

// Run ticks at Interval until ctx is cancelled, publishing one
// heartbeat event per tick.
func (e *Emitter) Run(ctx context.Context) {
	ticker := time.NewTicker(e.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.emit(ctx)
		}
	}
}

func (e *Emitter) emit(ctx context.Context) {
	statuses := make([]publisher.PathStatus, 0, len(e.Paths))
	for _, p := range e.Paths {
		snap := p.Status()
		statuses = append(statuses, publisher.PathStatus{Path: snap.Path, Status: snap.Status, ErrorMessage: snap.ErrorMessage})
	}

	e.Publisher.PublishHeartbeat(ctx, publisher.HeartbeatEvent{
		MachineID:   e.MachineID,
		IP:          e.IP,
		Connected:   e.ConnState.Connected(),
		Paths:       statuses,
		TimestampMs: e.Clock.Now().UnixMilli(),
	})
}
