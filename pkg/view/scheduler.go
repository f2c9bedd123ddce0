package view

import (
	"sync"
	"time"
)

// DefaultDebounce coalesces rapid successive layout requests (several nodes
// expanding within one gesture) into a single pass.
const DefaultDebounce = 200 * time.Millisecond

// Scheduler debounces re-layout requests and guarantees that the last
// scheduled request wins: every request gets a Token, and a computation
// whose token is no longer the latest must discard its result instead of
// overwriting a newer one. Without this, an older, larger tree could clobber
// a newer, smaller tree's measurements.
type Scheduler struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	gen   uint64
}

// Token identifies one scheduled layout request.
type Token struct {
	gen uint64
	s   *Scheduler
}

// Latest reports whether no newer request has been scheduled since this
// token was issued. Callers check it before applying a computed layout.
func (t Token) Latest() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return t.gen == t.s.gen
}

// NewScheduler creates a scheduler with the given debounce delay.
// A delay of zero runs requests immediately (useful in tests).
func NewScheduler(delay time.Duration) *Scheduler {
	return &Scheduler{delay: delay}
}

// Schedule registers fn to run once the debounce delay elapses with no newer
// request. fn receives the request's token and runs on a timer goroutine.
func (s *Scheduler) Schedule(fn func(Token)) Token {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.gen++
	t := Token{gen: s.gen, s: s}

	if s.timer != nil {
		s.timer.Stop()
	}
	if s.delay <= 0 {
		s.timer = nil
		go fn(t)
		return t
	}
	s.timer = time.AfterFunc(s.delay, func() { fn(t) })
	return t
}

// Stop cancels any pending request and invalidates outstanding tokens.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
