// Package supervisor owns a single CNC controller session: connecting,
// watching for disconnection, and reconnecting with exponential backoff
// plus jitter bounded by a configured [Min, Max] window.
package supervisor

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/otel/trace"

	"toolmonitor/internal/controller"
	"toolmonitor/internal/session"
	"toolmonitor/internal/telemetry"
)

// errConnectFailed marks a connect_session span as failed; it never
// escapes Run, which treats a failed connect attempt as routine.
var errConnectFailed = errors.New("connect_session: refused")

// idlePollInterval is how often a connected supervisor checks whether
// the client has dropped the session out from under it (e.g. the
// underlying socket reset).
const idlePollInterval = 1 * time.Second

// jitterFactor is the randomization factor applied on top of each
// exponential backoff step. A factor of 0.2 scales the computed delay by
// a uniform multiplier in [0.8, 1.2].
const jitterFactor = 0.2

// Supervisor drives one machine's controller session to completion.
// While Run is active, Connect and Disconnect on Client are only called
// from the goroutine running it (monitor.Monitor.Stop calls Disconnect
// once more after Run has returned); State is the only channel through
// which other goroutines (pollers, heartbeat) observe connection status.
type Supervisor struct {
	Client controller.Client
	State  *session.State
	Min    time.Duration
	Max    time.Duration

	// Tracer is optional; when nil, connect attempts run untraced.
	Tracer trace.Tracer
}

// Run connects and supervises the session until ctx is cancelled. It is
// safe to call again after returning: phase starts fresh at
// Disconnected each time, matching the state a freshly restarted
// supervisor goroutine would observe anyway.
func (s *Supervisor) Run(ctx context.Context) {
	phase := session.Disconnected
	s.State.Set(phase)

	b := s.newBackoff()

	for ctx.Err() == nil {
		if phase == session.Connected {
			if !waitOrDone(ctx, idlePollInterval) {
				return
			}
			if s.Client.Phase() != session.Connected {
				phase = phase.Transition(session.Disconnected)
				s.State.Set(phase)
				s.Client.Disconnect(ctx)
			}
			continue
		}

		phase = phase.Transition(session.Connecting)
		s.State.Set(phase)

		connected := false
		op := telemetry.Start(ctx, s.Tracer, "connect_session")
		_ = op.RunStep(op.Context(), "connect", func(stepCtx context.Context) error {
			connected = s.Client.Connect(stepCtx)
			if !connected {
				return errConnectFailed
			}
			return nil
		})
		op.End(nil) // a refused connect is routine; the backoff loop is the signal, not the span

		if connected {
			phase = phase.Transition(session.Connected)
			s.State.Set(phase)
			b.Reset()
			continue
		}

		phase = phase.Transition(session.Disconnected)
		s.State.Set(phase)

		delay := b.NextBackOff()
		if delay == backoff.Stop || delay > s.Max {
			// ExponentialBackOff caps the unjittered interval at MaxInterval
			// but applies randomization afterward, so the jittered result can
			// overshoot Max by up to RandomizationFactor. Clamp here so the
			// delay never exceeds the configured reconnect_max_delay_s.
			delay = s.Max
		}
		if delay < s.Min {
			// Jitter below 1.0 on the first step would undershoot Min.
			delay = s.Min
		}
		if !waitOrDone(ctx, delay) {
			return
		}
	}
}

func (s *Supervisor) newBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.Min
	b.MaxInterval = s.Max
	b.Multiplier = 2.0
	b.RandomizationFactor = jitterFactor
	b.MaxElapsedTime = 0 // a CNC machine may come back online at any time; never give up
	b.Reset()
	return b
}

func waitOrDone(ctx context.Context, d time.Duration) bool {
	select {
	case <-time.After(d):
		return true
	case <-ctx.Done():
		return false
	}
}
