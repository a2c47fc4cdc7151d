package sandbox

import (
	"time"

	"github.com/dop251/goja"
)

type timer struct {
	id   int64
	due  time.Time
	fn   goja.Callable
	args []goja.Value
}

// timerQueue backs setTimeout and clearTimeout. Nothing runs on its own: the
// worker pops due timers while it waits for a promise to settle.
type timerQueue struct {
	lastID  int64
	pending []*timer
	now     func() time.Time
}

func newTimerQueue() *timerQueue {
	return &timerQueue{now: time.Now}
}

func (q *timerQueue) add(fn goja.Callable, delay time.Duration, args []goja.Value) int64 {
	if delay < 0 {
		delay = 0
	}
	q.lastID++
	q.pending = append(q.pending, &timer{id: q.lastID, due: q.now().Add(delay), fn: fn, args: args})
	return q.lastID
}

func (q *timerQueue) clear(id int64) {
	for i, t := range q.pending {
		if t.id == id {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// pop removes and returns the timer due first. Equal due times fire in
// scheduling order.
func (q *timerQueue) pop() (*timer, bool) {
	if len(q.pending) == 0 {
		return nil, false
	}
	first := 0
	for i, t := range q.pending[1:] {
		if t.due.Before(q.pending[first].due) {
			first = i + 1
		}
	}
	t := q.pending[first]
	q.pending = append(q.pending[:first], q.pending[first+1:]...)
	return t, true
}

func (q *timerQueue) reset() { q.pending = nil }

func (q *timerQueue) len() int { return len(q.pending) }
