package timer

import (
	"sync"
	"time"
)

// Cancel stops a periodic task. Calling it more than once is safe.
type Cancel func()

// Scheduler runs fn every d until the returned Cancel is called
type Scheduler interface {
	Every(d time.Duration, fn func()) Cancel
}

// Clock supplies the current time
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// TickerScheduler drives callbacks from a time.Ticker on its own goroutine
type TickerScheduler struct{}

// Every starts a ticker loop that runs until cancelled
func (TickerScheduler) Every(d time.Duration, fn func()) Cancel {
	ticker := time.NewTicker(d)
	stopCh := make(chan struct{})

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				fn()
			case <-stopCh:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() { close(stopCh) })
	}
}

// ManualScheduler fires callbacks only when Fire is called.
// It is deterministic and test-friendly.
type ManualScheduler struct {
	mu     sync.Mutex
	nextID int
	tasks  map[int]func()
}

func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{tasks: map[int]func(){}}
}

func (s *ManualScheduler) Every(_ time.Duration, fn func()) Cancel {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.tasks[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.tasks, id)
		s.mu.Unlock()
	}
}

// Fire runs every active callback once
func (s *ManualScheduler) Fire() {
	s.mu.Lock()
	fns := make([]func(), 0, len(s.tasks))
	for _, fn := range s.tasks {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// FireN runs Fire n times
func (s *ManualScheduler) FireN(n int) {
	for i := 0; i < n; i++ {
		s.Fire()
	}
}

// Active returns the number of live periodic tasks
func (s *ManualScheduler) Active() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
