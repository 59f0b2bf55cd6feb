// Package monitor wires together the session supervisor, one poller per
// monitored path, and the heartbeat emitter for a single machine.
package monitor

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"toolmonitor/internal/clock"
	"toolmonitor/internal/controller"
	"toolmonitor/internal/heartbeat"
	"toolmonitor/internal/poller"
	"toolmonitor/internal/publisher"
	"toolmonitor/internal/session"
	"toolmonitor/internal/supervisor"
	"toolmonitor/internal/taskrun"
)

// taskRestartDelay is how long taskrun.Supervised waits before
// restarting a task whose goroutine panicked.
const taskRestartDelay = time.Second

// Config configures one machine's monitor.
type Config struct {
	MachineID         string
	IP                string
	Paths             []int
	PollInterval      time.Duration
	Debounce          int
	HeartbeatInterval time.Duration
	ReconnectMin      time.Duration
	ReconnectMax      time.Duration

	// Tracer is optional. When nil, connect/poll spans are skipped at
	// zero cost rather than created and discarded.
	Tracer trace.Tracer
}

// Monitor supervises one machine: its controller session, every
// monitored path's poller, and its heartbeat.
type Monitor struct {
	cfg       Config
	client    controller.Client
	publisher publisher.Publisher
	clock     clock.Clock
	connState *session.State
	pollers   []*poller.Poller

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New builds a Monitor. It does not start any goroutines until Start is
// called.
func New(cfg Config, client controller.Client, pub publisher.Publisher, clk clock.Clock) *Monitor {
	m := &Monitor{
		cfg:       cfg,
		client:    client,
		publisher: pub,
		clock:     clk,
		connState: &session.State{},
	}
	for _, path := range cfg.Paths {
		m.pollers = append(m.pollers, &poller.Poller{
			MachineID:    cfg.MachineID,
			IP:           cfg.IP,
			Path:         path,
			Client:       client,
			Publisher:    pub,
			Clock:        clk,
			PollInterval: cfg.PollInterval,
			Debounce:     cfg.Debounce,
			ConnState:    m.connState,
			Tracer:       cfg.Tracer,
		})
	}
	return m
}

// Start launches the supervisor, one poller goroutine per monitored
// path, and the heartbeat emitter. It returns immediately; use Stop to
// shut down.
func (m *Monitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	sup := &supervisor.Supervisor{
		Client: m.client,
		State:  m.connState,
		Min:    m.cfg.ReconnectMin,
		Max:    m.cfg.ReconnectMax,
		Tracer: m.cfg.Tracer,
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		taskrun.Supervised(ctx, "supervisor-"+m.cfg.MachineID, taskRestartDelay, sup.Run)
	}()

	for _, p := range m.pollers {
		p := p
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			taskrun.Supervised(ctx, "poller-"+m.cfg.MachineID, taskRestartDelay, p.Run)
		}()
	}

	snapshotters := make([]heartbeat.Snapshotter, len(m.pollers))
	for i, p := range m.pollers {
		snapshotters[i] = p
	}
	emitter := &heartbeat.Emitter{
		MachineID: m.cfg.MachineID,
		IP:        m.cfg.IP,
		Interval:  m.cfg.HeartbeatInterval,
		ConnState: m.connState,
		Publisher: m.publisher,
		Clock:     m.clock,
		Paths:     snapshotters,
	}
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		taskrun.Supervised(ctx, "heartbeat-"+m.cfg.MachineID, taskRestartDelay, emitter.Run)
	}()
}

// Stop cancels all of this machine's goroutines, waits for them to
// exit, then tears down the controller session. It is idempotent and
// safe to call even if Start was never called or only partially
// completed.
func (m *Monitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
	m.wg.Wait()
	if m.client != nil {
		m.client.Disconnect(context.Background())
	}
}

// ConnState exposes the shared connection state, read-only, for tests
// and the status banner.
func (m *Monitor) ConnState() *session.State {
	return m.connState
}
