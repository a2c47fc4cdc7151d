package challenge

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JamiaHub/JAMIAHUB/sandbox"
)

const (
	hostTimeoutMessage = "runner did not respond"
	spawnFailedMessage = "runner could not start"
	sendFailedMessage  = "runner did not accept the request"
	cancelledMessage   = "run cancelled"
)

// RunError is a run-level failure. A report carrying one has no results.
type RunError struct {
	Kind    sandbox.ErrorKind `json:"kind"`
	Message string            `json:"message"`
}

func (e *RunError) Error() string { return fmt.Sprintf("%s: %s", e.Kind, e.Message) }

// RunReport is the outcome of one Run.
type RunReport struct {
	ID      uuid.UUID        `json:"id"`
	Results []sandbox.Result `json:"results,omitempty"`
	Err     *RunError        `json:"error,omitempty"`
	Elapsed time.Duration    `json:"elapsed"`
}

// Passed reports whether the run completed and every test passed.
func (r RunReport) Passed() bool {
	if r.Err != nil {
		return false
	}
	for _, res := range r.Results {
		if !res.Passed {
			return false
		}
	}
	return true
}

// PassedCount returns how many results passed.
func (r RunReport) PassedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Passed {
			n++
		}
	}
	return n
}

func (r *RunReport) fill(reply sandbox.Reply) {
	if reply.Error != "" {
		kind := reply.Kind
		if kind == "" {
			kind = sandbox.KindCompile
		}
		r.Err = &RunError{Kind: kind, Message: reply.Error}
		return
	}
	r.Results = reply.Results
}
