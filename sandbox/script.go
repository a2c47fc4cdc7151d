package sandbox

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dop251/goja"
	jsast "github.com/dop251/goja/ast"
	"github.com/dop251/goja/parser"
)

const (
	wrapperHead = "(function (module) {\n\"use strict\";\n"
	wrapperTail = "\n;return typeof solve !== \"undefined\" ? solve : undefined;\n})"

	compilePrefix     = "Error while compiling code : "
	missingEntryPoint = "no function named solve found"
	threwPrefix       = "threw"
	timeoutMessage    = "Timeout"

	// adoptSource turns a thenable into a native promise the way await does.
	// Promise.resolve is bound before any solution code runs.
	adoptSource = `(function (P) {
	var resolve = P.resolve.bind(P);
	return function (v) {
		if (v !== null && (typeof v === "object" || typeof v === "function") && typeof v.then === "function") {
			return resolve(v);
		}
		return v;
	};
})(Promise)`
)

var (
	errTestTimeout    = errors.New(timeoutMessage)
	errUnbalancedBody = errors.New("SyntaxError: unbalanced braces close the solution body")
)

// rejection is a promise that settled as rejected.
type rejection struct{ reason goja.Value }

func (r *rejection) Error() string { return r.reason.String() }

// script is the per-request state of one runtime.
type script struct {
	vm     *goja.Runtime
	done   <-chan struct{}
	timers *timerQueue
	logs   []string

	solve     goja.Callable
	stringify goja.Callable
	parse     goja.Callable
	adopt     goja.Callable
}

func newScript(vm *goja.Runtime, done <-chan struct{}) *script {
	return &script{vm: vm, done: done, timers: newTimerQueue()}
}

// install exposes console.log, setTimeout and clearTimeout. Everything else in
// scope is plain ECMAScript.
func (s *script) install() error {
	console := s.vm.NewObject()
	if err := console.Set("log", s.consoleLog); err != nil {
		return err
	}
	for name, value := range map[string]any{
		"console":      console,
		"setTimeout":   s.setTimeout,
		"clearTimeout": s.clearTimeout,
	} {
		if err := s.vm.Set(name, value); err != nil {
			return err
		}
	}

	jsonObj := s.vm.Get("JSON").ToObject(s.vm)
	var ok bool
	if s.stringify, ok = goja.AssertFunction(jsonObj.Get("stringify")); !ok {
		return errors.New("JSON.stringify is not callable")
	}
	if s.parse, ok = goja.AssertFunction(jsonObj.Get("parse")); !ok {
		return errors.New("JSON.parse is not callable")
	}
	adopt, err := s.vm.RunString(adoptSource)
	if err != nil {
		return err
	}
	if s.adopt, ok = goja.AssertFunction(adopt); !ok {
		return errors.New("promise adapter is not callable")
	}
	return nil
}

// load evaluates code as a strict function body and resolves the entry
// point: a bare solve binding, then module.exports, then module.exports.solve.
func (s *script) load(code string) (ErrorKind, error) {
	prog, err := compileBody(code)
	if err != nil {
		return KindCompile, fmt.Errorf("%s%v", compilePrefix, err)
	}
	wrapper, err := s.vm.RunProgram(prog)
	if err != nil {
		return KindCompile, fmt.Errorf("%s%s", compilePrefix, thrownString(err))
	}
	call, ok := goja.AssertFunction(wrapper)
	if !ok {
		return KindCompile, fmt.Errorf("%scode does not evaluate to a function body", compilePrefix)
	}

	module := s.vm.NewObject()
	if err := module.Set("exports", s.vm.NewObject()); err != nil {
		return KindCompile, err
	}
	returned, err := call(goja.Undefined(), module)
	if err != nil {
		return KindCompile, fmt.Errorf("%s%s", compilePrefix, thrownString(err))
	}

	if fn, ok := goja.AssertFunction(returned); ok {
		s.solve = fn
		return "", nil
	}
	exports := module.Get("exports")
	if fn, ok := goja.AssertFunction(exports); ok {
		s.solve = fn
		return "", nil
	}
	if obj, ok := exports.(*goja.Object); ok {
		if fn, ok := goja.AssertFunction(obj.Get("solve")); ok {
			s.solve = fn
			return "", nil
		}
	}
	return KindMissingEntryPoint, errors.New(missingEntryPoint)
}

// compileBody wraps code in the module function. The wrapped source must parse
// to that one function expression; code that closes it early is a syntax error.
func compileBody(code string) (*goja.Program, error) {
	parsed, err := goja.Parse("solution.js", wrapperHead+code+wrapperTail, parser.WithDisableSourceMaps)
	if err != nil {
		return nil, err
	}
	if len(parsed.Body) != 1 || !isFunctionExpression(parsed.Body[0]) {
		return nil, errUnbalancedBody
	}
	return goja.CompileAST(parsed, false)
}

func isFunctionExpression(stmt jsast.Statement) bool {
	expr, ok := stmt.(*jsast.ExpressionStatement)
	if !ok {
		return false
	}
	_, ok = expr.Expression.(*jsast.FunctionLiteral)
	return ok
}

// run executes one test. Timers and logs never carry over between tests.
func (s *script) run(tc TestCase, budget time.Duration) (res Result) {
	s.logs = nil
	s.timers.reset()
	res = Result{Name: tc.Name, Expected: tc.Expected}
	defer func() { res.Logs = s.logs }()

	deadline := time.Now().Add(budget)
	args, err := s.arguments(tc.Args)
	if err != nil {
		return failure(res, err)
	}
	value, err := s.guard(deadline, func() (goja.Value, error) {
		v, err := s.solve(goja.Undefined(), args...)
		if err != nil {
			return nil, err
		}
		return s.adopt(goja.Undefined(), v)
	})
	if err == nil {
		if p, ok := value.Export().(*goja.Promise); ok {
			value, err = s.settle(p, deadline)
		}
	}
	if err != nil {
		return failure(res, err)
	}
	return s.compare(res, value, deadline)
}

func (s *script) arguments(args []any) ([]goja.Value, error) {
	out := make([]goja.Value, 0, len(args))
	for _, a := range args {
		raw, err := json.Marshal(a)
		if err != nil {
			return nil, fmt.Errorf("argument is not JSON: %w", err)
		}
		v, err := s.parse(goja.Undefined(), s.vm.ToValue(string(raw)))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// guard runs fn with the vm interrupted once deadline passes.
func (s *script) guard(deadline time.Time, fn func() (goja.Value, error)) (goja.Value, error) {
	remaining := time.Until(deadline)
	if remaining <= 0 {
		return nil, errTestTimeout
	}
	var mu sync.Mutex
	finished := false
	t := time.AfterFunc(remaining, func() {
		mu.Lock()
		defer mu.Unlock()
		if !finished {
			s.vm.Interrupt(errTestTimeout)
		}
	})
	defer func() {
		t.Stop()
		mu.Lock()
		finished = true
		mu.Unlock()
		s.vm.ClearInterrupt()
	}()

	v, err := fn()
	select {
	case <-s.done:
		return nil, ErrTerminated
	default:
	}
	return v, err
}

// settle drives the timer queue until p settles. A promise that nothing left
// in the queue can settle before deadline is a timeout.
func (s *script) settle(p *goja.Promise, deadline time.Time) (goja.Value, error) {
	for {
		switch p.State() {
		case goja.PromiseStateFulfilled:
			return p.Result(), nil
		case goja.PromiseStateRejected:
			return nil, &rejection{reason: p.Result()}
		}

		t, ok := s.timers.pop()
		if !ok || t.due.After(deadline) {
			return nil, errTestTimeout
		}
		if wait := time.Until(t.due); wait > 0 {
			sleep := time.NewTimer(wait)
			select {
			case <-sleep.C:
			case <-s.done:
				sleep.Stop()
				return nil, ErrTerminated
			}
		}
		_, err := s.guard(deadline, func() (goja.Value, error) {
			return t.fn(goja.Undefined(), t.args...)
		})
		if err != nil {
			if interrupted(err) {
				return nil, err
			}
			s.logs = append(s.logs, "uncaught "+thrownString(err))
		}
	}
}

func (s *script) compare(res Result, value goja.Value, deadline time.Time) Result {
	out, err := s.guard(deadline, func() (goja.Value, error) {
		return s.stringify(goja.Undefined(), value)
	})
	if err != nil {
		if interrupted(err) {
			return failure(res, err)
		}
		res.Outcome = OutcomeFailed
		res.Actual = value.String()
		res.Error = "result is not serializable: " + thrownString(err)
		return res
	}
	if goja.IsUndefined(out) {
		res.Outcome = OutcomeFailed
		res.Error = "returned undefined"
		return res
	}
	actual, err := decodeJSON(out.String())
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Error = err.Error()
		return res
	}
	res.Actual = actual
	res.Passed = Equal(actual, res.Expected)
	if res.Passed {
		res.Outcome = OutcomePassed
	} else {
		res.Outcome = OutcomeFailed
	}
	return res
}

func (s *script) consoleLog(call goja.FunctionCall) goja.Value {
	parts := make([]string, len(call.Arguments))
	for i, arg := range call.Arguments {
		parts[i] = s.display(arg)
	}
	s.logs = append(s.logs, strings.Join(parts, " "))
	return goja.Undefined()
}

func (s *script) display(v goja.Value) string {
	obj, ok := v.(*goja.Object)
	if !ok || obj.ClassName() == "Error" || obj.ClassName() == "Function" {
		return v.String()
	}
	out, err := s.stringify(goja.Undefined(), v)
	if err != nil || goja.IsUndefined(out) {
		return v.String()
	}
	return out.String()
}

func (s *script) setTimeout(call goja.FunctionCall) goja.Value {
	fn, ok := goja.AssertFunction(call.Argument(0))
	if !ok {
		panic(s.vm.NewTypeError("setTimeout: callback is not a function"))
	}
	delay := time.Duration(call.Argument(1).ToInteger()) * time.Millisecond
	var args []goja.Value
	if len(call.Arguments) > 2 {
		args = append(args, call.Arguments[2:]...)
	}
	return s.vm.ToValue(s.timers.add(fn, delay, args))
}

func (s *script) clearTimeout(call goja.FunctionCall) goja.Value {
	s.timers.clear(call.Argument(0).ToInteger())
	return goja.Undefined()
}

func interrupted(err error) bool {
	var ie *goja.InterruptedError
	return errors.Is(err, errTestTimeout) || errors.Is(err, ErrTerminated) || errors.As(err, &ie)
}

// thrownString renders an error the way String(err) would in the script.
func thrownString(err error) string {
	var ex *goja.Exception
	if errors.As(err, &ex) && ex.Value() != nil {
		return ex.Value().String()
	}
	var rej *rejection
	if errors.As(err, &rej) {
		return rej.reason.String()
	}
	return err.Error()
}

func failure(res Result, err error) Result {
	res.Passed = false
	if interrupted(err) {
		res.Outcome = OutcomeTimeout
		res.Error = timeoutMessage
		res.Actual = threwPrefix + "Error: " + timeoutMessage
		return res
	}
	msg := thrownString(err)
	res.Outcome = OutcomeThrew
	res.Error = msg
	res.Actual = threwPrefix + msg
	return res
}
