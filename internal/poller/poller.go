// Package poller drives the periodic read-detect-publish loop for a
// single monitored path.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"toolmonitor/internal/clock"
	"toolmonitor/internal/controller"
	"toolmonitor/internal/detector"
	"toolmonitor/internal/errreport"
	"toolmonitor/internal/publisher"
	"toolmonitor/internal/session"
	"toolmonitor/internal/telemetry"
)

// errorThrottle is the minimum time between repeated error publishes for
// a sustained failure on one path.
const errorThrottle = 60 * time.Second

// disconnectedRetry is how long Run waits before checking the session
// again after finding it not connected.
const disconnectedRetry = 500 * time.Millisecond

// errReadFailed marks the read_tool span as failed; it never escapes
// pollOnce, which treats a failed read as routine and clears it before
// returning.
var errReadFailed = errors.New("read_tool: no value")

// Snapshot is a path's current status, as read by the heartbeat
// emitter.
type Snapshot struct {
	Path         int
	Status       string
	ErrorMessage string
}

// Poller owns the debounce and error-report state for one path and
// drives it from repeated ReadTool calls.
type Poller struct {
	MachineID    string
	IP           string
	Path         int
	Client       controller.Client
	Publisher    publisher.Publisher
	Clock        clock.Clock
	PollInterval time.Duration
	Debounce     int
	ConnState    *session.State

	// Tracer is optional; when nil, pollOnce runs untraced.
	Tracer trace.Tracer

	mu       sync.Mutex
	detectSt detector.State
	errSt    errreport.State
}

// Run polls Path at PollInterval until ctx is cancelled. It only reads
// when ConnState reports Connected; while disconnected it waits
// disconnectedRetry between checks, leaving detector and error state
// untouched so a reconnect resumes debouncing from where it left off
// rather than re-emitting an event for the tool already in place.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !p.ConnState.Connected() {
				select {
				case <-ctx.Done():
					return
				case <-time.After(disconnectedRetry):
				}
				continue
			}
			p.pollOnce(ctx)
		}
	}
}

func (p *Poller) pollOnce(ctx context.Context) {
	op := telemetry.Start(ctx, p.Tracer, "poll_path")
	var readErr error
	defer func() { op.End(readErr) }()
	ctx = op.Context()

	var tool int64
	var ok bool
	readErr = op.RunStep(ctx, "read_tool", func(stepCtx context.Context) error {
		tool, ok = p.Client.ReadTool(stepCtx, p.Path)
		if !ok {
			return errReadFailed
		}
		return nil
	})
	nowMs := p.Clock.Now().UnixMilli()

	if !ok {
		readErr = nil // a failed read is an expected condition, not a span failure
		message := "Failed to read tool"
		var shouldPublish bool
		p.mu.Lock()
		p.errSt, shouldPublish = errreport.OnFailure(p.errSt, message, nowMs, errorThrottle)
		p.mu.Unlock()
		if shouldPublish {
			_ = op.RunStep(ctx, "publish_error", func(stepCtx context.Context) error {
				p.Publisher.PublishError(stepCtx, publisher.ErrorEvent{
					MachineID:   p.MachineID,
					Path:        p.Path,
					IP:          p.IP,
					Message:     message,
					TimestampMs: nowMs,
				})
				return nil
			})
		}
		return
	}

	p.mu.Lock()
	p.errSt = errreport.OnSuccess(p.errSt)
	var ev *detector.Event
	p.detectSt, ev = detector.Apply(p.detectSt, tool, p.Debounce)
	p.mu.Unlock()

	if ev != nil {
		_ = op.RunStep(ctx, "publish_tool_change", func(stepCtx context.Context) error {
			p.Publisher.PublishToolChange(stepCtx, publisher.ToolChangeEvent{
				MachineID:   p.MachineID,
				Path:        p.Path,
				IP:          p.IP,
				Previous:    ev.Previous,
				Current:     ev.Current,
				TimestampMs: nowMs,
			})
			return nil
		})
	}
}

// Status returns the path's current status snapshot for the heartbeat
// emitter.
func (p *Poller) Status() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	status, msg := p.errSt.Status()
	return Snapshot{Path: p.Path, Status: status.String(), ErrorMessage: msg}
}
