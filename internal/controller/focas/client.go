package focas

import (
	"context"
	"sync"
	"time"

	"toolmonitor/internal/session"
	"toolmonitor/internal/toolid"
)

// readTimeout bounds how long a single read_tool call can take: the
// client assumes a call completes within one poll period under normal
// operation, and a hung controller must not stall the path poller
// indefinitely.
const readTimeout = time.Second

// Config holds the FOCAS-specific parameters the original macro register
// read needs in addition to the machine's IP and path list.
type Config struct {
	MachineID     string
	IP            string
	Port          int
	MacroAddress  int
	MacroLength   int
	ConnectTimeMs int
}

// Client is the production controller.Client. Every call is routed
// through a single dedicated, pinned OS thread (worker) because the
// underlying FOCAS handle is only valid on the thread that created it.
type Client struct {
	cfg Config
	ops nativeOps
	w   *worker

	mu     sync.Mutex
	handle uint16
	phase  session.Phase
}

// New creates a production client backed by stubOps: this binary ships
// without a cgo binding to the vendor FOCAS library, so every connect and
// read reports failure and callers fall back to the retry path.
func New(cfg Config) *Client {
	return &Client{cfg: cfg, ops: stubOps{}, w: newWorker()}
}

// Close releases the worker's dedicated thread. Callers must not use the
// client after calling Close.
func (c *Client) Close() {
	c.w.stop()
}

func (c *Client) Connect(ctx context.Context) bool {
	c.mu.Lock()
	c.phase = session.Connecting
	c.mu.Unlock()

	result := make(chan bool, 1)
	submitted := c.w.submit(ctx, func() {
		handle, ok := c.ops.connect(c.cfg.IP, c.cfg.Port, c.cfg.ConnectTimeMs)
		if ok {
			c.mu.Lock()
			c.handle = handle
			c.mu.Unlock()
		}
		result <- ok
	})
	if !submitted {
		c.setPhase(session.Disconnected)
		return false
	}

	select {
	case ok := <-result:
		if ok {
			c.setPhase(session.Connected)
		} else {
			c.setPhase(session.Disconnected)
		}
		return ok
	case <-ctx.Done():
		return false
	}
}

func (c *Client) Disconnect(ctx context.Context) {
	c.mu.Lock()
	handle := c.handle
	c.mu.Unlock()

	done := make(chan struct{}, 1)
	submitted := c.w.submit(ctx, func() {
		c.ops.disconnect(handle)
		done <- struct{}{}
	})
	if submitted {
		select {
		case <-done:
		case <-ctx.Done():
		}
	}
	c.setPhase(session.Disconnected)
}

func (c *Client) ReadTool(ctx context.Context, path int) (int64, bool) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	type readResult struct {
		tool int64
		ok   bool
	}
	result := make(chan readResult, 1)

	c.mu.Lock()
	handle := c.handle
	c.mu.Unlock()

	submitted := c.w.submit(ctx, func() {
		mcrVal, decVal, ok := c.ops.readMacro(handle, path, c.cfg.MacroAddress, c.cfg.MacroLength)
		if !ok {
			result <- readResult{}
			return
		}
		result <- readResult{tool: toolid.Decode(mcrVal, decVal), ok: true}
	})
	if !submitted {
		return 0, false
	}

	select {
	case r := <-result:
		return r.tool, r.ok
	case <-ctx.Done():
		return 0, false
	}
}

func (c *Client) Phase() session.Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Client) setPhase(p session.Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}
