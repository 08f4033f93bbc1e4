package autooff

import (
	"log/slog"
	"sync"
	"time"
)

// Scheduler is a single-slot cancellable timer that invokes the off
// callback once the idle window elapses without a rearm.
//
// The scheduler has two states: Idle (no pending timer) and Armed (one
// pending power-off). Schedule moves to Armed, replacing any pending
// timer; Cancel moves to Idle and is idempotent.
type Scheduler struct {
	window time.Duration
	off    func()
	logger *slog.Logger

	mu    sync.Mutex
	timer *time.Timer
	gen   uint64
}

// New creates a scheduler that calls off after window of inactivity.
//
// The off callback runs on the timer goroutine, outside the scheduler
// lock; it must be safe to call concurrently with Schedule and Cancel.
func New(window time.Duration, off func(), logger *slog.Logger) *Scheduler {
	return &Scheduler{
		window: window,
		off:    off,
		logger: logger,
	}
}

// Schedule arms the power-off for a fresh full idle window, cancelling
// any timer already pending. Rearming resets the countdown rather than
// extending it.
func (s *Scheduler) Schedule() {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.window, func() { s.fire(gen) })
	s.mu.Unlock()

	s.logger.Info("auto-off scheduled", "window", s.window.String())
}

// Cancel disarms any pending power-off. Safe to call when already Idle.
//
// Cancellation is cooperative: a fire that has already passed its
// generation check runs the off callback to completion.
func (s *Scheduler) Cancel() {
	s.mu.Lock()
	s.gen++
	armed := s.timer != nil
	if armed {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	if armed {
		s.logger.Info("auto-off cancelled")
	}
}

// Armed reports whether a power-off is currently pending.
func (s *Scheduler) Armed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timer != nil
}

// fire runs on the timer goroutine when the window elapses.
//
// The generation check suppresses fires that lost a race with Schedule
// or Cancel: time.Timer.Stop cannot stop a callback that has already
// been dispatched, so a stale callback may still arrive here after the
// slot was rearmed or cleared.
func (s *Scheduler) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.mu.Unlock()

	s.off()
	s.logger.Info("auto-off fired")
}
