package focas

// nativeOps is the seam between the thread-affinity worker and the
// actual FOCAS library entry points (Cnc_allclibhndl3, Cnc_freelibhndl,
// Cnc_rdmacro). Every method here must only ever be invoked from the
// worker's locked OS thread.
type nativeOps interface {
	connect(ip string, port int, timeoutMs int) (handle uint16, ok bool)
	disconnect(handle uint16)
	readMacro(handle uint16, path int, macroAddress, macroLength int) (mcrVal int64, decVal int, ok bool)
}

// stubOps is the nativeOps used when this binary was not linked against
// the vendor FOCAS shared library (libfwlib32.so). It always reports
// failure so that callers fall back to the same retry/backoff path a
// real unreachable machine would take, rather than panicking on a nil
// cgo binding.
type stubOps struct{}

func (stubOps) connect(_ string, _ int, _ int) (uint16, bool) { return 0, false }

func (stubOps) disconnect(_ uint16) {}

func (stubOps) readMacro(_ uint16, _ int, _, _ int) (int64, int, bool) { return 0, 0, false }
