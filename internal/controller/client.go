// Package controller defines the contract a CNC controller client must
// satisfy, independent of whether it talks to a real FOCAS-speaking
// machine or a simulated one.
package controller

import (
	"context"

	"toolmonitor/internal/session"
)

// Client is a single machine's controller connection. A Client is owned
// by exactly one session supervisor goroutine; ReadTool may additionally
// be called concurrently by one poller goroutine per monitored path once
// Connect has succeeded, because distinct paths on the same machine
// share one session but are independent reads.
type Client interface {
	// Connect establishes the session. It returns false (not an error)
	// on a failed attempt: failure to connect is an expected, routine
	// condition the supervisor retries with backoff, not an exceptional
	// one.
	Connect(ctx context.Context) bool

	// Disconnect tears down the session. It is always safe to call,
	// including when not connected.
	Disconnect(ctx context.Context)

	// ReadTool reads the current tool number for a path. ok is false if
	// the read failed; the caller must not interpret tool as valid in
	// that case.
	ReadTool(ctx context.Context, path int) (tool int64, ok bool)

	// Phase reports the client's view of its own connection phase. The
	// session supervisor is the source of truth; this exists so a
	// client implementation that detects an async disconnect can be
	// polled.
	Phase() session.Phase
}
