package challenge

import (
	"fmt"
	"sync"
	"time"
)

const (
	SessionDuration = 300 * time.Second
	basePoints      = 100
	// Seconds left beyond this grace period are added as bonus points.
	bonusGrace = 60
)

// Session walks the catalog against a countdown and keeps a score.
type Session struct {
	mu         sync.Mutex
	challenges []Challenge
	index      int
	score      int
	started    time.Time
	now        func() time.Time
}

// NewSession starts the clock. A nil now uses time.Now.
func NewSession(now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	s := &Session{challenges: Catalog(), now: now}
	s.started = now()
	return s
}

func (s *Session) Current() Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.challenges[s.index]
}

func (s *Session) Index() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

func (s *Session) Len() int { return len(s.challenges) }

// Next moves forward one challenge, stopping at the last.
func (s *Session) Next() Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = min(len(s.challenges)-1, s.index+1)
	return s.challenges[s.index]
}

// Prev moves back one challenge, stopping at the first.
func (s *Session) Prev() Challenge {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = max(0, s.index-1)
	return s.challenges[s.index]
}

func (s *Session) Score() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.score
}

// TimeLeft counts down whole seconds and never goes below zero.
func (s *Session) TimeLeft() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeLeft()
}

func (s *Session) timeLeft() time.Duration {
	left := SessionDuration - s.now().Sub(s.started)
	if left < 0 {
		return 0
	}
	return left.Truncate(time.Second)
}

func (s *Session) Expired() bool { return s.TimeLeft() == 0 }

// Record adds points for a fully passing report and returns the award.
func (s *Session) Record(report RunReport) int {
	if !report.Passed() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	secondsLeft := int(s.timeLeft() / time.Second)
	award := basePoints + max(0, secondsLeft-bonusGrace)
	s.score += award
	return award
}

// Reset returns to the first challenge with no score and a full clock.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = 0
	s.score = 0
	s.started = s.now()
}

// FormatClock renders a duration as mm:ss.
func FormatClock(d time.Duration) string {
	secs := int(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
