package challenge

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/JamiaHub/JAMIAHUB/sandbox"
)

const (
	DefaultTestTimeout = 1500 * time.Millisecond
	DefaultHostTimeout = 2500 * time.Millisecond
)

type Options struct {
	// TestTimeout is the per-test budget used when Run is given none.
	TestTimeout time.Duration
	// HostTimeout bounds the wait for a reply. It is stretched for requests
	// whose tests could legitimately use more than that between them.
	HostTimeout time.Duration
	Logger      logrus.FieldLogger
}

func DefaultOptions() Options {
	return Options{TestTimeout: DefaultTestTimeout, HostTimeout: DefaultHostTimeout}
}

// Runner dispatches solutions to one long-lived isolate, one run at a time.
type Runner struct {
	host sandbox.Host
	opts Options
	log  logrus.FieldLogger

	runMu sync.Mutex

	mu     sync.Mutex
	handle sandbox.Handle
}

func NewRunner(host sandbox.Host, opts Options) *Runner {
	if opts.TestTimeout <= 0 {
		opts.TestTimeout = DefaultTestTimeout
	}
	if opts.HostTimeout <= 0 {
		opts.HostTimeout = DefaultHostTimeout
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Runner{host: host, opts: opts, log: log}
}

// Start spawns the isolate. Calling it again while one is alive is a no-op.
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle != nil {
		return nil
	}
	h, err := r.host.Spawn()
	if err != nil {
		return fmt.Errorf("spawn isolate: %w", err)
	}
	r.handle = h
	return nil
}

// Close terminates the isolate.
func (r *Runner) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle != nil {
		r.handle.Terminate()
		r.handle = nil
	}
}

func (r *Runner) current() (sandbox.Handle, error) {
	r.mu.Lock()
	h := r.handle
	r.mu.Unlock()
	if h != nil {
		return h, nil
	}
	if err := r.Start(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.handle, nil
}

// restart replaces a wedged isolate with a fresh one.
func (r *Runner) restart(stale sandbox.Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.handle != stale {
		return
	}
	stale.Terminate()
	r.handle = nil
	h, err := r.host.Spawn()
	if err != nil {
		r.log.WithError(err).Error("could not respawn isolate")
		return
	}
	r.handle = h
	r.log.Warn("isolate did not respond, restarted")
}

func (r *Runner) hostTimeout(testTimeout time.Duration, tests int) time.Duration {
	return max(r.opts.HostTimeout, testTimeout*time.Duration(tests+1))
}

// RunChallenge runs code against the tests of c with the default per-test budget.
func (r *Runner) RunChallenge(ctx context.Context, c Challenge, code string) RunReport {
	return r.Run(ctx, code, c.Tests, r.opts.TestTimeout)
}

// Run evaluates code in the isolate and runs tests against it. Failures are
// reported in the RunReport, never returned.
func (r *Runner) Run(ctx context.Context, code string, tests []sandbox.TestCase, timeout time.Duration) (report RunReport) {
	r.runMu.Lock()
	defer r.runMu.Unlock()

	start := time.Now()
	report = RunReport{ID: uuid.New()}
	log := r.log.WithField("run", report.ID)
	defer func() {
		report.Elapsed = time.Since(start)
		entry := log.WithField("elapsed", report.Elapsed)
		if report.Err != nil {
			entry.WithField("kind", report.Err.Kind).Info(report.Err.Message)
			return
		}
		entry.WithFields(logrus.Fields{
			"tests":  len(report.Results),
			"passed": report.PassedCount(),
		}).Info("run finished")
	}()

	if timeout <= 0 {
		timeout = r.opts.TestTimeout
	}
	h, err := r.current()
	if err != nil {
		report.Err = &RunError{Kind: sandbox.KindHostTimeout, Message: fmt.Sprintf("%s: %v", spawnFailedMessage, err)}
		return report
	}

	id := report.ID.String()
	replies := make(chan sandbox.Reply, 1)
	h.OnReply(func(reply sandbox.Reply) {
		if reply.ID != id {
			log.WithField("reply", reply.ID).Debug("ignoring reply for another run")
			return
		}
		select {
		case replies <- reply:
		default:
		}
	})
	defer h.OnReply(nil)

	req := sandbox.Request{ID: id, Code: code, Tests: tests, TimeoutMs: int(timeout / time.Millisecond)}
	if err := h.Send(req); err != nil {
		r.restart(h)
		report.Err = &RunError{Kind: sandbox.KindHostTimeout, Message: fmt.Sprintf("%s: %v", sendFailedMessage, err)}
		return report
	}

	wait := time.NewTimer(r.hostTimeout(timeout, len(tests)))
	defer wait.Stop()
	select {
	case reply := <-replies:
		report.fill(reply)
	case <-wait.C:
		r.restart(h)
		report.Err = &RunError{Kind: sandbox.KindHostTimeout, Message: hostTimeoutMessage}
	case <-ctx.Done():
		r.restart(h)
		report.Err = &RunError{Kind: sandbox.KindCancelled, Message: fmt.Sprintf("%s: %v", cancelledMessage, ctx.Err())}
	}
	return report
}
