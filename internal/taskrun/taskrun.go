// Package taskrun wraps long-running goroutines so a single unexpected
// panic inside one task never brings down the whole process: it is
// logged and the task is restarted after a short delay instead.
package taskrun

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"
)

// Supervised repeatedly invokes fn until ctx is cancelled. fn is
// expected to itself be a loop that runs until ctx is done; if it
// returns early (including via panic) Supervised waits restartDelay and
// calls it again, so any state fn needs to preserve across a restart
// must live outside fn's local variables (e.g. in a struct field the
// caller owns).
func Supervised(ctx context.Context, name string, restartDelay time.Duration, fn func(ctx context.Context)) {
	for ctx.Err() == nil {
		runOnce(ctx, name, fn)
		if ctx.Err() != nil {
			return
		}
		select {
		case <-time.After(restartDelay):
		case <-ctx.Done():
			return
		}
	}
}

func runOnce(ctx context.Context, name string, fn func(ctx context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("task panic recovered, restarting", "task", name, "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn(ctx)
}
