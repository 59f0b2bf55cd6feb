// Package publishertest provides an in-memory publisher.Publisher for
// tests, recording every event it is asked to publish.
package publishertest

import (
	"context"
	"sync"

	"toolmonitor/internal/publisher"
)

// Fake records published events in memory and never fails unless
// FailNext is set.
type Fake struct {
	mu           sync.Mutex
	ToolChanges  []publisher.ToolChangeEvent
	Errors       []publisher.ErrorEvent
	Heartbeats   []publisher.HeartbeatEvent
	ConnectedVal bool
	FailNext     bool
}

var _ publisher.Publisher = (*Fake)(nil)

// New creates a Fake that reports itself as connected.
func New() *Fake {
	return &Fake{ConnectedVal: true}
}

func (f *Fake) consumeFailure() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.FailNext {
		f.FailNext = false
		return true
	}
	return false
}

func (f *Fake) PublishToolChange(_ context.Context, e publisher.ToolChangeEvent) bool {
	if f.consumeFailure() {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ToolChanges = append(f.ToolChanges, e)
	return true
}

func (f *Fake) PublishError(_ context.Context, e publisher.ErrorEvent) bool {
	if f.consumeFailure() {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Errors = append(f.Errors, e)
	return true
}

func (f *Fake) PublishHeartbeat(_ context.Context, e publisher.HeartbeatEvent) bool {
	if f.consumeFailure() {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Heartbeats = append(f.Heartbeats, e)
	return true
}

func (f *Fake) Connected() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ConnectedVal
}
