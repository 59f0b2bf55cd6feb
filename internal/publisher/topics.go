package publisher

import "fmt"

// QoS levels per the original service: tool-change and error events are
// delivered at-least-once, heartbeats are fire-and-forget since a
// missed heartbeat is superseded by the next one a few seconds later.
const (
	QoSToolChange byte = 1
	QoSError      byte = 1
	QoSHeartbeat  byte = 0
)

func toolChangeTopic(machineID string, path int) string {
	return fmt.Sprintf("fanuc/%s/event/tool_change/path%d", machineID, path)
}

func errorTopic(machineID string) string {
	return fmt.Sprintf("fanuc/%s/event/error", machineID)
}

func stateTopic(machineID string) string {
	return fmt.Sprintf("fanuc/%s/state", machineID)
}
