package practice

import (
	"fmt"
	"sync"
	"time"

	"k8s.io/utils/clock"
)

// Timer is a stopwatch for practice sessions. It runs independently of the metronome so a session can be timed
// across tempo changes and stops.
type Timer struct {
	clock clock.PassiveClock

	mu        sync.Mutex
	running   bool
	startedAt time.Time
	elapsed   time.Duration
}

func NewTimer(clk clock.PassiveClock) *Timer {
	return &Timer{clock: clk}
}

// Start resumes the stopwatch. It does nothing when already running.
func (t *Timer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return
	}
	t.running = true
	t.startedAt = t.clock.Now()
}

// Pause stops the stopwatch, keeping the time accumulated so far.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running {
		return
	}
	t.elapsed += t.clock.Since(t.startedAt)
	t.running = false
}

// Toggle pauses a running stopwatch and starts a paused one.
func (t *Timer) Toggle() bool {
	if t.Running() {
		t.Pause()
		return false
	}
	t.Start()
	return true
}

// Reset stops the stopwatch and clears it.
func (t *Timer) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.running = false
	t.elapsed = 0
}

func (t *Timer) Running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.running
}

// Elapsed is the total running time.
func (t *Timer) Elapsed() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running {
		return t.elapsed + t.clock.Since(t.startedAt)
	}
	return t.elapsed
}

func (t *Timer) String() string {
	return FormatHMS(t.Elapsed())
}

// FormatHMS formats a duration as HH:MM:SS, dropping fractions of a second.
func FormatHMS(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
