package monitor

import (
	"context"
	"testing"
	"time"

	"toolmonitor/internal/clock/clocktest"
	"toolmonitor/internal/controller/controllertest"
	"toolmonitor/internal/publisher/publishertest"
)

// End-to-end: a machine that connects cleanly and holds one unchanging
// tool produces a heartbeat stream but never a tool-change event: the
// first stabilization only arms the detector.
func TestMonitorStableToolProducesNoEvent(t *testing.T) {
	client := controllertest.New()
	client.Tools[1] = 2000
	pub := publishertest.New()
	clk := clocktest.New(time.Unix(0, 0))

	cfg := Config{
		MachineID:         "mill-1",
		IP:                "10.0.0.5",
		Paths:             []int{1},
		PollInterval:      2 * time.Millisecond,
		Debounce:          2,
		HeartbeatInterval: 5 * time.Millisecond,
		ReconnectMin:      5 * time.Millisecond,
		ReconnectMax:      20 * time.Millisecond,
	}
	m := New(cfg, client, pub, clk)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	time.Sleep(40 * time.Millisecond)
	cancel()
	m.Stop()

	if len(pub.ToolChanges) != 0 {
		t.Fatalf("expected no tool change events for an unchanging tool, got %d: %+v", len(pub.ToolChanges), pub.ToolChanges)
	}
	if len(pub.Heartbeats) == 0 {
		t.Fatalf("expected at least one heartbeat")
	}
}

// End-to-end: a machine that fails every connection attempt never
// produces a tool-change event and keeps retrying (observable via
// repeated Connect calls) without the monitor goroutines exiting early.
func TestMonitorNeverConnectsProducesNoToolChanges(t *testing.T) {
	client := &controllertest.Fake{ConnectResults: []bool{false}}
	pub := publishertest.New()
	clk := clocktest.New(time.Unix(0, 0))

	cfg := Config{
		MachineID:         "mill-2",
		IP:                "10.0.0.6",
		Paths:             []int{1},
		PollInterval:      2 * time.Millisecond,
		Debounce:          2,
		HeartbeatInterval: 5 * time.Millisecond,
		ReconnectMin:      2 * time.Millisecond,
		ReconnectMax:      10 * time.Millisecond,
	}
	m := New(cfg, client, pub, clk)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	time.Sleep(30 * time.Millisecond)
	cancel()
	m.Stop()

	if len(pub.ToolChanges) != 0 {
		t.Fatalf("expected no tool changes while never connected, got %d", len(pub.ToolChanges))
	}
	if client.ConnectCalls() < 2 {
		t.Fatalf("expected repeated reconnect attempts, got %d", client.ConnectCalls())
	}
	if len(pub.Heartbeats) == 0 {
		t.Fatalf("expected heartbeats to continue reporting disconnected status")
	}
	if pub.Heartbeats[0].Connected {
		t.Fatalf("expected heartbeat to report disconnected")
	}
}

// Multiple paths on one machine are independent: a tool change on one
// path never emits an event for another path holding steady.
func TestMonitorPathsAreIndependent(t *testing.T) {
	client := controllertest.New()
	client.Tools[1] = 2000
	client.Tools[2] = 3000
	pub := publishertest.New()
	clk := clocktest.New(time.Unix(0, 0))

	cfg := Config{
		MachineID:         "mill-3",
		IP:                "10.0.0.7",
		Paths:             []int{1, 2},
		PollInterval:      2 * time.Millisecond,
		Debounce:          2,
		HeartbeatInterval: 50 * time.Millisecond,
		ReconnectMin:      5 * time.Millisecond,
		ReconnectMax:      20 * time.Millisecond,
	}
	m := New(cfg, client, pub, clk)

	ctx, cancel := context.WithCancel(context.Background())
	m.Start(ctx)
	time.Sleep(10 * time.Millisecond) // let both paths stabilize on their initial tool

	client.SetTool(1, 2100) // path 1 changes; path 2 holds steady

	time.Sleep(20 * time.Millisecond)
	cancel()
	m.Stop()

	seenPaths := map[int]int{}
	for _, ev := range pub.ToolChanges {
		seenPaths[ev.Path]++
	}
	if seenPaths[1] != 1 {
		t.Fatalf("expected exactly one tool change event on path 1, got %+v", seenPaths)
	}
	if seenPaths[2] != 0 {
		t.Fatalf("expected no tool change event on path 2, got %+v", seenPaths)
	}
}
