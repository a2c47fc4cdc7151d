package sandbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/dop251/goja"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	DefaultTestTimeout = 1500 * time.Millisecond
	defaultInboxSize   = 4

	internalErrorMessage = "isolate crashed"
)

// GojaHost spawns isolates backed by goja. Each isolate is one goroutine that
// builds a fresh runtime per request, so nothing a solution does outlives its run.
type GojaHost struct {
	Logger    logrus.FieldLogger
	InboxSize int

	// prepare, when set, runs on each fresh runtime after the solution loads.
	prepare func(vm *goja.Runtime)
}

func NewGojaHost(logger logrus.FieldLogger) *GojaHost {
	return &GojaHost{Logger: logger}
}

func (h *GojaHost) Spawn() (Handle, error) {
	logger := h.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	size := h.InboxSize
	if size <= 0 {
		size = defaultInboxSize
	}
	w := &Worker{
		id:      uuid.NewString(),
		inbox:   make(chan Request, size),
		done:    make(chan struct{}),
		prepare: h.prepare,
	}
	w.log = logger.WithField("isolate", w.id)
	go w.loop()
	w.log.Debug("isolate spawned")
	return w, nil
}

// Worker is the isolate side of a Handle.
type Worker struct {
	id       string
	log      logrus.FieldLogger
	inbox    chan Request
	done     chan struct{}
	stopOnce sync.Once
	prepare  func(vm *goja.Runtime)

	mu       sync.Mutex
	listener func(Reply)
	vm       *goja.Runtime
}

func (w *Worker) Send(req Request) error {
	if w.terminated() {
		return ErrTerminated
	}
	select {
	case w.inbox <- req:
		return nil
	default:
		return ErrBusy
	}
}

func (w *Worker) OnReply(fn func(Reply)) {
	w.mu.Lock()
	w.listener = fn
	w.mu.Unlock()
}

func (w *Worker) Terminate() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.mu.Lock()
		if w.vm != nil {
			w.vm.Interrupt(ErrTerminated)
		}
		w.listener = nil
		w.mu.Unlock()
		w.log.Debug("isolate terminated")
	})
}

func (w *Worker) terminated() bool {
	select {
	case <-w.done:
		return true
	default:
		return false
	}
}

func (w *Worker) loop() {
	for {
		select {
		case <-w.done:
			return
		case req := <-w.inbox:
			w.deliver(w.execute(req))
		}
	}
}

func (w *Worker) deliver(reply Reply) {
	w.mu.Lock()
	fn := w.listener
	w.mu.Unlock()
	if fn == nil || w.terminated() {
		w.log.WithField("request", reply.ID).Debug("dropping reply with no listener")
		return
	}
	fn(reply)
}

// setRuntime publishes the running vm so Terminate can interrupt it.
func (w *Worker) setRuntime(vm *goja.Runtime) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.vm = vm
	if vm != nil && w.terminated() {
		vm.Interrupt(ErrTerminated)
	}
}

func (w *Worker) execute(req Request) (reply Reply) {
	start := time.Now()
	log := w.log.WithField("request", req.ID)
	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("isolate crashed while running request")
			reply = Reply{ID: req.ID, Error: fmt.Sprintf("%s: %v", internalErrorMessage, r), Kind: KindInternal}
		}
	}()

	vm := goja.New()
	w.setRuntime(vm)
	defer w.setRuntime(nil)

	s := newScript(vm, w.done)
	if err := s.install(); err != nil {
		return Reply{ID: req.ID, Error: err.Error(), Kind: KindCompile}
	}
	if kind, err := s.load(req.Code); err != nil {
		log.WithError(err).WithField("kind", kind).Debug("solution rejected")
		return Reply{ID: req.ID, Error: err.Error(), Kind: kind}
	}

	if w.prepare != nil {
		w.prepare(vm)
	}

	budget := req.testTimeout()
	if budget <= 0 {
		budget = DefaultTestTimeout
	}
	results := make([]Result, 0, len(req.Tests))
	passed := 0
	for _, tc := range req.Tests {
		if w.terminated() {
			break
		}
		res := s.run(tc, budget)
		if res.Passed {
			passed++
		}
		results = append(results, res)
	}
	log.WithFields(logrus.Fields{
		"tests":   len(results),
		"passed":  passed,
		"elapsed": time.Since(start),
	}).Debug("request finished")
	return Reply{ID: req.ID, Results: results}
}
