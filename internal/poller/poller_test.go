package poller

import (
	"context"
	"testing"
	"time"

	"toolmonitor/internal/clock/clocktest"
	"toolmonitor/internal/controller/controllertest"
	"toolmonitor/internal/publisher/publishertest"
	"toolmonitor/internal/session"
)

func newTestPoller(t *testing.T, client *controllertest.Fake, pub *publishertest.Fake) *Poller {
	t.Helper()
	state := &session.State{}
	state.Set(session.Connected)
	return &Poller{
		MachineID:    "mill-1",
		IP:           "10.0.0.5",
		Path:         1,
		Client:       client,
		Publisher:    pub,
		Clock:        clocktest.New(time.Unix(0, 0)),
		PollInterval: time.Millisecond,
		Debounce:     2,
		ConnState:    state,
	}
}

// The very first stabilization of a path only arms the detector: it
// never produces a tool-change event, matching the spec's invariant
// that a transition requires a prior confirmed tool.
func TestPollerFirstStabilizationEmitsNoEvent(t *testing.T) {
	client := controllertest.New()
	client.Tools[1] = 2000
	pub := publishertest.New()
	p := newTestPoller(t, client, pub)

	ctx := context.Background()
	p.pollOnce(ctx)
	p.pollOnce(ctx)

	if len(pub.ToolChanges) != 0 {
		t.Fatalf("expected no tool change event on first stabilization, got %d", len(pub.ToolChanges))
	}
}

func TestPollerEmitsToolChangeAfterDebounce(t *testing.T) {
	client := controllertest.New()
	client.Tools[1] = 2000
	pub := publishertest.New()
	p := newTestPoller(t, client, pub)

	ctx := context.Background()
	p.pollOnce(ctx)
	p.pollOnce(ctx) // stabilizes on 2000, no event

	client.Tools[1] = 2100
	p.pollOnce(ctx)
	p.pollOnce(ctx) // confirms the transition to 2100

	if len(pub.ToolChanges) != 1 {
		t.Fatalf("expected 1 tool change event, got %d", len(pub.ToolChanges))
	}
	if pub.ToolChanges[0].Previous != 2000 {
		t.Fatalf("expected previous tool 2000, got %d", pub.ToolChanges[0].Previous)
	}
	if pub.ToolChanges[0].Current != 2100 {
		t.Fatalf("unexpected current tool %d", pub.ToolChanges[0].Current)
	}
}

func TestPollerReportsReadFailure(t *testing.T) {
	client := controllertest.New()
	client.ReadOK = false
	pub := publishertest.New()
	p := newTestPoller(t, client, pub)

	p.pollOnce(context.Background())

	if len(pub.Errors) != 1 {
		t.Fatalf("expected 1 error event, got %d", len(pub.Errors))
	}
}

func TestPollerIdlesWhileDisconnected(t *testing.T) {
	client := controllertest.New()
	client.Tools[1] = 2000
	pub := publishertest.New()
	p := newTestPoller(t, client, pub)
	p.ConnState.Set(session.Disconnected)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	p.Run(ctx)

	if len(pub.ToolChanges) != 0 {
		t.Fatalf("expected no events while disconnected, got %d", len(pub.ToolChanges))
	}
}

// Scenario: error then recover. A failed read flips the path to error
// status; a subsequent successful read clears it silently, and the
// first stabilization after recovery arms the detector without
// emitting a tool change.
func TestPollerRecoversAfterReadFailure(t *testing.T) {
	client := controllertest.New()
	client.ReadOK = false
	client.Tools[1] = 5
	pub := publishertest.New()
	p := newTestPoller(t, client, pub)

	ctx := context.Background()
	p.pollOnce(ctx)
	p.pollOnce(ctx)

	if len(pub.Errors) != 1 {
		t.Fatalf("expected the repeated failure to be throttled to 1 error event, got %d", len(pub.Errors))
	}
	if snap := p.Status(); snap.Status != "error" || snap.ErrorMessage == "" {
		t.Fatalf("expected error status with a message, got %+v", snap)
	}

	client.ReadOK = true
	p.pollOnce(ctx)
	p.pollOnce(ctx)

	if snap := p.Status(); snap.Status != "ok" || snap.ErrorMessage != "" {
		t.Fatalf("expected silent recovery to ok, got %+v", snap)
	}
	if len(pub.ToolChanges) != 0 {
		t.Fatalf("expected no tool change on first stabilization after recovery, got %d", len(pub.ToolChanges))
	}
}

// P6: under sustained read failure, error events re-publish at most
// once per 60s window after the initial transition.
func TestPollerThrottlesSustainedReadFailure(t *testing.T) {
	client := controllertest.New()
	client.ReadOK = false
	pub := publishertest.New()
	p := newTestPoller(t, client, pub)
	clk := p.Clock.(*clocktest.Clock)

	ctx := context.Background()
	for i := 0; i <= 100; i++ {
		p.pollOnce(ctx)
		clk.Advance(1200 * time.Millisecond)
	}

	// 101 failed polls spanning t=0s..120s: one event at the
	// transition, one each time the 60s window elapses.
	if len(pub.Errors) != 3 {
		t.Fatalf("expected exactly 3 error events over 120s of failure, got %d", len(pub.Errors))
	}
}
