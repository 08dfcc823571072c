package model

// SessionState is a step of the benchmark session. States only move forward.
type SessionState int

const (
	Idle SessionState = iota
	BenchmarkToolStarting
	TargetStarting
	AwaitingReady
	PreCaptureReady
	Benchmarking
	PostCaptureReady
	TearingDown
	Collecting
	Done
)

var stateNames = [...]string{
	Idle:                  "idle",
	BenchmarkToolStarting: "benchmark_tool_starting",
	TargetStarting:        "target_starting",
	AwaitingReady:         "awaiting_ready",
	PreCaptureReady:       "pre_capture_ready",
	Benchmarking:          "benchmarking",
	PostCaptureReady:      "post_capture_ready",
	TearingDown:           "tearing_down",
	Collecting:            "collecting",
	Done:                  "done",
}

func (s SessionState) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}
