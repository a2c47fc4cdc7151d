package challenge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/JamiaHub/JAMIAHUB/sandbox"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func passing() RunReport {
	return RunReport{Results: []sandbox.Result{{Passed: true}, {Passed: true}}}
}

func TestSessionNavigationClamps(t *testing.T) {
	s := NewSession(nil)
	assert.Equal(t, 0, s.Index())
	assert.Equal(t, "Sum of Array", s.Prev().Title)
	assert.Equal(t, "Reverse String", s.Next().Title)
	assert.Equal(t, "FizzBuzz Label", s.Next().Title)
	assert.Equal(t, "FizzBuzz Label", s.Next().Title)
	assert.Equal(t, 2, s.Index())
	assert.Equal(t, "Reverse String", s.Prev().Title)
	assert.Equal(t, "Reverse String", s.Current().Title)
	assert.Equal(t, 3, s.Len())
}

func TestSessionScoring(t *testing.T) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	s := NewSession(clock.now)
	assert.Equal(t, SessionDuration, s.TimeLeft())

	clock.advance(40 * time.Second)
	assert.Equal(t, 100+260-60, s.Record(passing()))
	assert.Equal(t, 300, s.Score())

	assert.Zero(t, s.Record(RunReport{Results: []sandbox.Result{{Passed: true}, {Passed: false}}}))
	assert.Zero(t, s.Record(RunReport{Err: &RunError{Kind: sandbox.KindCompile, Message: "x"}}))
	assert.Equal(t, 300, s.Score())

	clock.advance(250*time.Second + 500*time.Millisecond)
	assert.Equal(t, 9*time.Second, s.TimeLeft())
	assert.Equal(t, 100, s.Record(passing()))
	assert.Equal(t, 400, s.Score())

	clock.advance(time.Hour)
	assert.True(t, s.Expired())
	assert.Equal(t, time.Duration(0), s.TimeLeft())
	assert.Equal(t, 100, s.Record(passing()))
}

func TestSessionReset(t *testing.T) {
	clock := &fakeClock{t: time.Unix(0, 0)}
	s := NewSession(clock.now)
	s.Next()
	clock.advance(100 * time.Second)
	s.Record(passing())
	s.Reset()
	assert.Equal(t, 0, s.Index())
	assert.Zero(t, s.Score())
	assert.Equal(t, SessionDuration, s.TimeLeft())
	assert.Equal(t, Catalog()[0].Starter, s.Current().Starter)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "05:00", FormatClock(SessionDuration))
	assert.Equal(t, "00:09", FormatClock(9*time.Second))
	assert.Equal(t, "01:01", FormatClock(61*time.Second+900*time.Millisecond))
}
