package supervisor

import (
	"context"
	"testing"
	"time"

	"toolmonitor/internal/controller/controllertest"
	"toolmonitor/internal/session"
)

// P8: Run keeps retrying through repeated connect failures with a
// [Min, Max] backoff. Only the repeated attempts are asserted here; the
// individual delays are not observed.
func TestReconnectBackoffBounds(t *testing.T) {
	fake := &controllertest.Fake{ConnectResults: []bool{false, false, false, false, false}}
	state := &session.State{}
	sup := &Supervisor{
		Client: fake,
		State:  state,
		Min:    10 * time.Millisecond,
		Max:    50 * time.Millisecond,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 400*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		sup.Run(ctx)
		close(done)
	}()
	<-done

	if fake.ConnectCalls() < 2 {
		t.Fatalf("expected multiple reconnect attempts, got %d", fake.ConnectCalls())
	}
}

// P8: the unjittered base delay doubles on every attempt until it hits
// Max, where it then holds.
func TestBackoffBaseDoublesUntilCap(t *testing.T) {
	sup := &Supervisor{
		Min: 10 * time.Millisecond,
		Max: 100 * time.Millisecond,
	}
	b := sup.newBackoff()
	b.RandomizationFactor = 0 // isolate the base sequence from jitter

	want := []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		80 * time.Millisecond,
		100 * time.Millisecond, // capped at Max
		100 * time.Millisecond,
	}
	for i, w := range want {
		got := b.NextBackOff()
		if got != w {
			t.Fatalf("attempt %d: expected base delay %v, got %v", i, w, got)
		}
	}
}

func TestSupervisorReachesConnected(t *testing.T) {
	fake := &controllertest.Fake{ConnectResults: []bool{true}}
	state := &session.State{}
	sup := &Supervisor{
		Client: fake,
		State:  state,
		Min:    5 * time.Millisecond,
		Max:    20 * time.Millisecond,
	}

	ctx, cancel := context.WithCancel(context.Background())
	go sup.Run(ctx)

	deadline := time.After(time.Second)
	for state.Get() != session.Connected {
		select {
		case <-deadline:
			cancel()
			t.Fatalf("supervisor never reached Connected")
		case <-time.After(time.Millisecond):
		}
	}
	cancel()
}
