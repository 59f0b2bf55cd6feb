//go:build linux

package focas

import (
	"log/slog"

	"golang.org/x/sys/unix"
)

// pinCurrentThread pins the calling OS thread to a single CPU. FOCAS
// itself does not require this, but pinning the dedicated worker thread
// avoids the scheduler migrating it between cores mid-call, which has
// been observed to add latency spikes on busy shop-floor gateways.
func pinCurrentThread() {
	var set unix.CPUSet
	set.Zero()
	set.Set(0)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		slog.Warn("focas worker: failed to pin thread affinity", "error", err)
	}
}
