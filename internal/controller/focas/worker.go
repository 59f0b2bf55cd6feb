// Package focas implements a controller.Client over FANUC's FOCAS
// library. FOCAS library handles are bound to the OS thread that opened
// them: calling Cnc_rdmacro (or any other FOCAS entry point) from a
// different thread than the one that called Cnc_allclibhndl3 returns
// EW_REJECT. Every call for a given machine must therefore be serialized
// through one dedicated, pinned OS thread.
package focas

import (
	"context"
	"runtime"
)

// worker runs every FOCAS call for one machine on a single, locked OS
// thread. jobs is unbuffered: it is a single-slot work queue, so at most
// one call is ever in flight and callers naturally queue up behind it,
// which is exactly the serialization FOCAS requires. The thread is never
// unlocked, so when run returns the runtime discards it rather than
// reusing a CPU-pinned thread for other goroutines.
type worker struct {
	jobs chan func()
	quit chan struct{}
}

func newWorker() *worker {
	w := &worker{
		jobs: make(chan func()),
		quit: make(chan struct{}),
	}
	go w.run()
	return w
}

func (w *worker) run() {
	runtime.LockOSThread()
	pinCurrentThread()

	for {
		select {
		case fn := <-w.jobs:
			fn()
		case <-w.quit:
			return
		}
	}
}

// submit enqueues fn on the worker's thread. Because jobs is unbuffered,
// submit blocks while a previous call is still executing; ctx bounds that
// wait so a hung native call cannot stall every subsequent caller past
// its own deadline. fn itself runs to completion once accepted.
func (w *worker) submit(ctx context.Context, fn func()) bool {
	select {
	case w.jobs <- fn:
		return true
	case <-w.quit:
		return false
	case <-ctx.Done():
		return false
	}
}

func (w *worker) stop() {
	close(w.quit)
}
