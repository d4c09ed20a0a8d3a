// Package timer implements the per-task countdown.
//
// A Timer is idle (nothing left), configured (time left, not running),
// running, or completed (reached zero while running). While running it
// owns one periodic tick handle; the handle is released exactly once by
// whichever of pause, stop, restart, completion or Close gets there first.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// Status is the coarse timer state
type Status int

const (
	StatusIdle Status = iota
	StatusPaused
	StatusRunning
	StatusCompleted
)

// String returns the string representation of the status
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPaused:
		return "paused"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a timer
type State struct {
	TimeLeft  int        // Seconds remaining, never negative
	Running   bool       // Only true while TimeLeft > 0
	StartedAt *time.Time // Set by Start, cleared by Stop and on completion
	Completed bool       // Reached zero while running
}

// Status derives the coarse state
func (s State) Status() Status {
	switch {
	case s.Running:
		return StatusRunning
	case s.Completed:
		return StatusCompleted
	case s.TimeLeft > 0:
		return StatusPaused
	default:
		return StatusIdle
	}
}

type handle struct {
	once   sync.Once
	cancel Cancel
}

func (h *handle) release() {
	h.once.Do(h.cancel)
}

// Timer is a countdown ticking once per interval while running
type Timer struct {
	mu        sync.Mutex
	timeLeft  int
	running   bool
	completed bool
	closed    bool
	startedAt *time.Time

	gen  uint64
	tick *handle

	interval   time.Duration
	sched      Scheduler
	clock      Clock
	onComplete func()
	onChange   func(State)
}

// Option configures a Timer
type Option func(*Timer)

// WithScheduler sets the tick source
func WithScheduler(s Scheduler) Option {
	return func(t *Timer) { t.sched = s }
}

// WithClock sets the clock used for start instants
func WithClock(c Clock) Option {
	return func(t *Timer) { t.clock = c }
}

// OnComplete registers the completion signal. It fires once per completion.
func OnComplete(fn func()) Option {
	return func(t *Timer) { t.onComplete = fn }
}

// OnChange registers an observer called after every state change
func OnChange(fn func(State)) Option {
	return func(t *Timer) { t.onChange = fn }
}

// New creates a timer configured with initialSeconds and not running
func New(initialSeconds int, opts ...Option) *Timer {
	if initialSeconds < 0 {
		initialSeconds = 0
	}
	t := &Timer{
		timeLeft: initialSeconds,
		interval: time.Second,
		sched:    TickerScheduler{},
		clock:    RealClock{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// State returns a snapshot
func (t *Timer) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked()
}

// Start sets the countdown to minutes and runs it. Restarting is allowed from any state.
func (t *Timer) Start(minutes int) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.releaseLocked()
	t.completed = false
	t.timeLeft = max(minutes, 0) * 60
	t.running = t.timeLeft > 0
	t.startedAt = nil
	if t.running {
		now := t.clock.Now()
		t.startedAt = &now
		t.scheduleLocked()
	}
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(s)
}

// Pause stops ticking and keeps the remaining time
func (t *Timer) Pause() {
	t.mu.Lock()
	if !t.running {
		t.mu.Unlock()
		return
	}
	t.running = false
	t.releaseLocked()
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(s)
}

// Resume continues a paused countdown. No-op with nothing left.
func (t *Timer) Resume() {
	t.mu.Lock()
	if t.closed || t.running || t.timeLeft <= 0 {
		t.mu.Unlock()
		return
	}
	t.running = true
	t.scheduleLocked()
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(s)
}

// Stop resets to idle from any state
func (t *Timer) Stop() {
	t.mu.Lock()
	t.releaseLocked()
	t.running = false
	t.completed = false
	t.timeLeft = 0
	t.startedAt = nil
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(s)
}

// Reset configures the countdown to minutes without running it
func (t *Timer) Reset(minutes int) {
	t.mu.Lock()
	t.releaseLocked()
	t.running = false
	t.completed = false
	t.timeLeft = max(minutes, 0) * 60
	t.startedAt = nil
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(s)
}

// Tick advances the countdown by one second. The scheduler calls it while
// running; it is exported so callers can drive the timer by hand.
func (t *Timer) Tick() {
	t.advance(0, false)
}

// Close releases the tick handle for good. The timer ignores Start and Resume afterwards.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.releaseLocked()
	t.running = false
	t.closed = true
}

func (t *Timer) advance(gen uint64, checkGen bool) {
	t.mu.Lock()
	if checkGen && gen != t.gen {
		t.mu.Unlock()
		return
	}
	if !t.running || t.timeLeft <= 0 {
		t.mu.Unlock()
		return
	}

	fire := false
	if t.timeLeft <= 1 {
		t.timeLeft = 0
		t.running = false
		t.completed = true
		t.startedAt = nil
		t.releaseLocked()
		fire = true
	} else {
		t.timeLeft--
	}
	s := t.snapshotLocked()
	t.mu.Unlock()

	t.changed(s)
	if fire && t.onComplete != nil {
		t.onComplete()
	}
}

func (t *Timer) scheduleLocked() {
	t.releaseLocked()
	gen := t.gen
	cancel := t.sched.Every(t.interval, func() { t.advance(gen, true) })
	t.tick = &handle{cancel: cancel}
}

// releaseLocked drops the current tick handle and invalidates ticks already in flight
func (t *Timer) releaseLocked() {
	if t.tick != nil {
		t.tick.release()
		t.tick = nil
	}
	t.gen++
}

func (t *Timer) snapshotLocked() State {
	s := State{
		TimeLeft:  t.timeLeft,
		Running:   t.running,
		Completed: t.completed,
	}
	if t.startedAt != nil {
		at := *t.startedAt
		s.StartedAt = &at
	}
	return s
}

func (t *Timer) changed(s State) {
	if t.onChange != nil {
		t.onChange(s)
	}
}

// Format renders seconds as H:MM:SS from one hour up, else M:SS
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}
