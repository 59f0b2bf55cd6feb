// Package controllertest provides an in-memory controller.Client for
// tests.
package controllertest

import (
	"context"
	"sync"

	"toolmonitor/internal/session"
)

// Fake is a scriptable controller.Client. ConnectResults is consumed in
// order by successive Connect calls; once exhausted, Connect returns the
// last result repeatedly.
type Fake struct {
	mu             sync.Mutex
	ConnectResults []bool
	connectCalls   int
	ConnectDelay   func()

	Tools  map[int]int64
	ReadOK bool

	connected bool
	phase     session.Phase
}

// New creates a Fake that is connected and reads return ok by default.
func New() *Fake {
	return &Fake{Tools: map[int]int64{}, ReadOK: true, connected: true, phase: session.Connected}
}

func (f *Fake) Connect(ctx context.Context) bool {
	if f.ConnectDelay != nil {
		f.ConnectDelay()
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	var result bool
	if len(f.ConnectResults) == 0 {
		result = true
	} else {
		idx := f.connectCalls
		if idx >= len(f.ConnectResults) {
			idx = len(f.ConnectResults) - 1
		}
		result = f.ConnectResults[idx]
	}
	f.connectCalls++

	f.connected = result
	if result {
		f.phase = session.Connected
	} else {
		f.phase = session.Disconnected
	}
	return result
}

func (f *Fake) Disconnect(ctx context.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = false
	f.phase = session.Disconnected
}

func (f *Fake) ReadTool(ctx context.Context, path int) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.connected || !f.ReadOK {
		return 0, false
	}
	return f.Tools[path], true
}

func (f *Fake) Phase() session.Phase {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.phase
}

// ConnectCalls returns how many times Connect has been invoked.
func (f *Fake) ConnectCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.connectCalls
}

// SetConnected forces the connected flag, simulating the machine
// dropping the session without the client itself calling Disconnect.
func (f *Fake) SetConnected(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.connected = v
	if v {
		f.phase = session.Connected
	} else {
		f.phase = session.Disconnected
	}
}

// SetTool changes the tool reported for path, safe to call concurrently
// with a poller goroutine's ReadTool calls.
func (f *Fake) SetTool(path int, tool int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tools[path] = tool
}
