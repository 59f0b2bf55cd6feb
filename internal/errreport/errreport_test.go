package errreport

import (
	"testing"
	"time"
)

// P6: error throttle — immediate publish on OK-to-ERROR, then at most
// once per throttle window while sustained, silent clear on recovery.
func TestErrorThrottlePolicy(t *testing.T) {
	var s State
	throttle := 60 * time.Second

	s, publish := OnFailure(s, "read timeout", 1_000, throttle)
	if !publish {
		t.Fatalf("expected immediate publish on OK->ERROR transition")
	}

	s, publish = OnFailure(s, "read timeout", 1_500, throttle)
	if publish {
		t.Fatalf("expected no publish before throttle window elapses")
	}

	s, publish = OnFailure(s, "read timeout", 61_200, throttle)
	if !publish {
		t.Fatalf("expected publish once throttle window elapses")
	}

	s = OnSuccess(s)
	status, msg := s.Status()
	if status != OK || msg != "" {
		t.Fatalf("expected silent clear on recovery, got status=%v msg=%q", status, msg)
	}

	_, publish = OnFailure(s, "read timeout", 61_300, throttle)
	if !publish {
		t.Fatalf("expected a fresh OK->ERROR transition to publish immediately again")
	}
}
