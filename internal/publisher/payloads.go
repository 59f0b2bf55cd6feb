package publisher

import "fmt"

// sourceID identifies this service to downstream consumers on every
// published message; it is a fixed literal, not configurable, because
// existing consumers key off it to distinguish this monitor from other
// publishers on the same bus.
const sourceID = "rpi4-monitor"

// toolChangePayload is the JSON body published to a tool-change topic.
// Field names and the "event" literal are fixed by existing consumers
// of this bus; they are not this service's to rename.
type toolChangePayload struct {
	MachineID    string `json:"machine_id"`
	Path         int    `json:"path"`
	IP           string `json:"ip"`
	Event        string `json:"event"`
	ToolPrevious int64  `json:"tool_previous"`
	ToolCurrent  int64  `json:"tool_current"`
	TimestampMs  int64  `json:"ts_unix_ms"`
	Source       string `json:"source"`
}

func newToolChangePayload(e ToolChangeEvent) toolChangePayload {
	return toolChangePayload{
		MachineID:    e.MachineID,
		Path:         e.Path,
		IP:           e.IP,
		Event:        "tool_change",
		ToolPrevious: e.Previous,
		ToolCurrent:  e.Current,
		TimestampMs:  e.TimestampMs,
		Source:       sourceID,
	}
}

// errorPayload is the JSON body published to the error topic.
type errorPayload struct {
	MachineID   string `json:"machine_id"`
	Path        int    `json:"path"`
	IP          string `json:"ip"`
	Error       string `json:"error"`
	TimestampMs int64  `json:"ts_unix_ms"`
	Source      string `json:"source"`
}

func newErrorPayload(e ErrorEvent) errorPayload {
	return errorPayload{
		MachineID:   e.MachineID,
		Path:        e.Path,
		IP:          e.IP,
		Error:       e.Message,
		TimestampMs: e.TimestampMs,
		Source:      sourceID,
	}
}

// heartbeatPayload is the JSON body published to the state topic. Path
// status is flattened into path<N>_status / path<N>_error keys, matching
// the original service's dict-based heartbeat shape.
type heartbeatPayload map[string]any

func newHeartbeatPayload(e HeartbeatEvent) heartbeatPayload {
	p := heartbeatPayload{
		"machine_id": e.MachineID,
		"ip":         e.IP,
		"connected":  e.Connected,
		"ts_unix_ms": e.TimestampMs,
		"source":     sourceID,
	}
	for _, ps := range e.Paths {
		p[pathStatusKey(ps.Path)] = ps.Status
		if ps.ErrorMessage != "" {
			p[pathErrorKey(ps.Path)] = ps.ErrorMessage
		}
	}
	return p
}

func pathStatusKey(path int) string { return fmt.Sprintf("path%d_status", path) }
func pathErrorKey(path int) string  { return fmt.Sprintf("path%d_error", path) }
