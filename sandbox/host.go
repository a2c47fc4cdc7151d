package sandbox

import "errors"

var (
	ErrTerminated = errors.New("isolate terminated")
	ErrBusy       = errors.New("isolate inbox full")
)

// Host starts isolates.
type Host interface {
	Spawn() (Handle, error)
}

// Handle is the host side of one isolate. Messages cross it by value only.
type Handle interface {
	// Send posts a request without waiting for it to run.
	Send(req Request) error
	// OnReply replaces the reply listener. Nil removes it; replies that arrive
	// with no listener are dropped.
	OnReply(fn func(Reply))
	// Terminate stops the isolate, interrupting any script that is running.
	Terminate()
}
