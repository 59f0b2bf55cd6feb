//go:build darwin

package focas

// pinCurrentThread is a no-op on Darwin: the Mach scheduler does not
// expose a portable hard-affinity syscall equivalent to Linux's
// sched_setaffinity, and FOCAS itself does not require pinning, only
// serialization through worker.jobs.
func pinCurrentThread() {}
