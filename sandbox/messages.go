package sandbox

import "time"

// TestCase is one invocation of the solution and the value it should produce.
type TestCase struct {
	Name     string `json:"name"`
	Args     []any  `json:"args"`
	Expected any    `json:"expected"`
}

// Request asks an isolate to evaluate Code and run Tests against it.
type Request struct {
	ID        string     `json:"id"`
	Code      string     `json:"code"`
	Tests     []TestCase `json:"tests"`
	TimeoutMs int        `json:"timeoutMs"`
}

func (r Request) testTimeout() time.Duration {
	return time.Duration(r.TimeoutMs) * time.Millisecond
}

// Outcome classifies a single test result.
type Outcome string

const (
	OutcomePassed  Outcome = "passed"
	OutcomeFailed  Outcome = "failed"
	OutcomeThrew   Outcome = "threw"
	OutcomeTimeout Outcome = "timeout"
)

// ErrorKind classifies a run-level error. A reply carrying one has no results.
// Compile, missing entry point and internal errors come from the isolate; host
// timeouts and cancellations are produced on the host side.
type ErrorKind string

const (
	KindCompile           ErrorKind = "compile"
	KindMissingEntryPoint ErrorKind = "missing_entry_point"
	KindInternal          ErrorKind = "internal"
	KindHostTimeout       ErrorKind = "host_timeout"
	KindCancelled         ErrorKind = "cancelled"
)

// Result is the outcome of one TestCase. Actual holds the JSON form of the
// returned value, or an error marker string when the call threw or timed out.
type Result struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Outcome  Outcome  `json:"outcome"`
	Expected any      `json:"expected"`
	Actual   any      `json:"actual"`
	Error    string   `json:"error,omitempty"`
	Logs     []string `json:"logs,omitempty"`
}

// Reply carries either Results, one per test in request order, or an Error.
type Reply struct {
	ID      string    `json:"id"`
	Results []Result  `json:"results,omitempty"`
	Error   string    `json:"error,omitempty"`
	Kind    ErrorKind `json:"kind,omitempty"`
}
