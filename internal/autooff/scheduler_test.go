package autooff

import (
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// testLogger returns a logger that discards all output for clean test output.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestScheduler_FiresAfterWindow(t *testing.T) {
	var fired atomic.Int32
	s := New(20*time.Millisecond, func() { fired.Add(1) }, testLogger())

	s.Schedule()
	if !s.Armed() {
		t.Error("Armed() = false after Schedule(), want true")
	}

	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %v times, want 1", got)
	}
	if s.Armed() {
		t.Error("Armed() = true after fire, want false")
	}
}

func TestScheduler_RearmResetsCountdown(t *testing.T) {
	var fired atomic.Int32
	s := New(80*time.Millisecond, func() { fired.Add(1) }, testLogger())

	// rearm repeatedly inside the window; the countdown must reset
	// each time, so nothing fires while writes keep arriving
	for i := 0; i < 5; i++ {
		s.Schedule()
		time.Sleep(30 * time.Millisecond)
	}
	if got := fired.Load(); got != 0 {
		t.Errorf("fired %v times while rearming, want 0", got)
	}

	time.Sleep(200 * time.Millisecond)
	if got := fired.Load(); got != 1 {
		t.Errorf("fired %v times after last window, want exactly 1", got)
	}
}

func TestScheduler_RapidScheduleFiresOnce(t *testing.T) {
	var fired atomic.Int32
	s := New(30*time.Millisecond, func() { fired.Add(1) }, testLogger())

	for i := 0; i < 50; i++ {
		s.Schedule()
	}

	time.Sleep(150 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %v times after 50 rapid schedules, want 1", got)
	}
}

func TestScheduler_CancelSuppressesFire(t *testing.T) {
	var fired atomic.Int32
	s := New(30*time.Millisecond, func() { fired.Add(1) }, testLogger())

	s.Schedule()
	s.Cancel()

	if s.Armed() {
		t.Error("Armed() = true after Cancel(), want false")
	}

	time.Sleep(100 * time.Millisecond)

	if got := fired.Load(); got != 0 {
		t.Errorf("fired %v times after cancel, want 0", got)
	}
}

func TestScheduler_CancelIdempotent(t *testing.T) {
	s := New(time.Minute, func() {}, testLogger())

	// cancel while Idle must be a safe no-op
	s.Cancel()
	s.Cancel()

	s.Schedule()
	s.Cancel()
	s.Cancel()

	if s.Armed() {
		t.Error("Armed() = true after repeated Cancel(), want false")
	}
}

func TestScheduler_ScheduleAfterCancelRearms(t *testing.T) {
	var fired atomic.Int32
	s := New(30*time.Millisecond, func() { fired.Add(1) }, testLogger())

	s.Schedule()
	s.Cancel()
	s.Schedule()

	time.Sleep(150 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %v times, want 1", got)
	}
}

func TestScheduler_ConcurrentScheduleFiresOnce(t *testing.T) {
	var fired atomic.Int32
	s := New(50*time.Millisecond, func() { fired.Add(1) }, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Schedule()
			}
		}()
	}
	wg.Wait()

	time.Sleep(200 * time.Millisecond)

	if got := fired.Load(); got != 1 {
		t.Errorf("fired %v times after concurrent schedules, want 1", got)
	}
}

func TestScheduler_ConcurrentCancelAndSchedule(t *testing.T) {
	var fired atomic.Int32
	s := New(10*time.Millisecond, func() { fired.Add(1) }, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Schedule()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				s.Cancel()
			}
		}()
	}
	wg.Wait()

	// whatever interleaving happened, the slot must end consistent:
	// either Idle, or Armed with exactly one eventual fire
	s.Cancel()
	before := fired.Load()
	time.Sleep(100 * time.Millisecond)
	if got := fired.Load(); got != before {
		t.Errorf("fired %v more times after final cancel", got-before)
	}
}
