package heartbeat

import (
	"context"
	"testing"
	"time"

	"toolmonitor/internal/clock/clocktest"
	"toolmonitor/internal/poller"
	"toolmonitor/internal/publisher/publishertest"
	"toolmonitor/internal/session"
)

type fixedSnapshotter struct{ snap poller.Snapshot }

func (f fixedSnapshotter) Status() poller.Snapshot { return f.snap }

func TestEmitterPublishesPeriodically(t *testing.T) {
	state := &session.State{}
	state.Set(session.Connected)
	pub := publishertest.New()

	e := &Emitter{
		MachineID: "mill-1",
		IP:        "10.0.0.5",
		Interval:  5 * time.Millisecond,
		ConnState: state,
		Publisher: pub,
		Clock:     clocktest.New(time.Unix(0, 0)),
		Paths:     []Snapshotter{fixedSnapshotter{snap: poller.Snapshot{Path: 1, Status: "ok"}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	e.Run(ctx)

	if len(pub.Heartbeats) < 2 {
		t.Fatalf("expected multiple heartbeats, got %d", len(pub.Heartbeats))
	}
	hb := pub.Heartbeats[0]
	if !hb.Connected {
		t.Fatalf("expected heartbeat to report connected")
	}
	if len(hb.Paths) != 1 || hb.Paths[0].Status != "ok" {
		t.Fatalf("unexpected path statuses: %+v", hb.Paths)
	}
}
