// Package simulated provides a development-mode controller.Client that
// fabricates connection flakiness and tool changes instead of talking to
// a real machine.
package simulated

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"toolmonitor/internal/session"
)

var defaultTools = []int64{2000, 2100, 2220, 2400}

// Client simulates a FANUC controller: it fails to connect at a
// configurable rate, occasionally fails a read, and occasionally rolls
// a monitored path over to a different tool.
type Client struct {
	MachineID string
	IP        string
	Port      int

	// ConnectFailRate is the probability (0..1) that Connect fails.
	// Defaults to 0.1, matching observed field behavior of flaky
	// machine network links.
	ConnectFailRate float64
	// ReadFailRate is the probability (0..1) that ReadTool fails once
	// connected.
	ReadFailRate float64
	// ToolChangeRate is the probability (0..1), per read, that a path
	// rolls over to a different tool.
	ToolChangeRate float64

	mu        sync.Mutex
	connected bool
	phase     session.Phase
	tools     map[int]int64
}

// New creates a simulated client with the field defaults used in
// development configuration.
func New(machineID, ip string, port int) *Client {
	return &Client{
		MachineID:       machineID,
		IP:              ip,
		Port:            port,
		ConnectFailRate: 0.1,
		ReadFailRate:    0.0,
		ToolChangeRate:  0.05,
		tools:           map[int]int64{},
	}
}

// SetFailRate overrides the simulated read failure rate; used by tests
// to force error-path scenarios.
func (c *Client) SetFailRate(rate float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ReadFailRate = clamp01(rate)
}

// SetTool forces the simulated tool for a path; used by tests to drive
// specific debounce scenarios.
func (c *Client) SetTool(path int, tool int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tools[path] = tool
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func (c *Client) Connect(ctx context.Context) bool {
	c.mu.Lock()
	c.phase = session.Connecting
	c.mu.Unlock()

	select {
	case <-time.After(100 * time.Millisecond):
	case <-ctx.Done():
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if rand.Float64() < c.ConnectFailRate {
		c.phase = session.Disconnected
		c.connected = false
		return false
	}
	c.phase = session.Connected
	c.connected = true
	return true
}

func (c *Client) Disconnect(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	c.phase = session.Disconnected
}

func (c *Client) ReadTool(ctx context.Context, path int) (int64, bool) {
	if ctx.Err() != nil {
		return 0, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return 0, false
	}
	if rand.Float64() < c.ReadFailRate {
		return 0, false
	}

	current, ok := c.tools[path]
	if !ok {
		current = defaultTools[0]
	}
	if rand.Float64() < c.ToolChangeRate {
		current = nextTool(current)
	}
	c.tools[path] = current
	return current, true
}

func nextTool(current int64) int64 {
	candidates := make([]int64, 0, len(defaultTools)-1)
	for _, t := range defaultTools {
		if t != current {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		return current
	}
	return candidates[rand.Intn(len(candidates))]
}

func (c *Client) Phase() session.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}
