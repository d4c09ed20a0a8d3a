package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/timer"
)

// timerMsg reports a change in a task timer
type timerMsg struct {
	TaskID string
	State  timer.State
}

// timerDoneMsg is sent once when a task timer reaches zero
type timerDoneMsg struct {
	TaskID string
}

type timerEntry struct {
	t       *timer.Timer
	minutes int
}

// timerSet owns one countdown per displayed task with a timer configured
type timerSet struct {
	mu     sync.Mutex
	timers map[string]*timerEntry
	sched  timer.Scheduler

	events chan tea.Msg
	done   chan struct{}
	once   sync.Once
}

func newTimerSet(sched timer.Scheduler) *timerSet {
	if sched == nil {
		sched = timer.TickerScheduler{}
	}
	return &timerSet{
		timers: map[string]*timerEntry{},
		sched:  sched,
		events: make(chan tea.Msg, 64),
		done:   make(chan struct{}),
	}
}

// sync creates timers for newly displayed tasks, reconfigures idle ones whose
// duration changed and closes those no longer displayed.
func (s *timerSet) sync(tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(tasks))
	for _, task := range tasks {
		if !task.HasTimer() {
			continue
		}
		seen[task.ID] = true

		e, ok := s.timers[task.ID]
		if !ok {
			s.timers[task.ID] = &timerEntry{t: s.newTimer(task), minutes: task.Timer}
			continue
		}
		if e.minutes != task.Timer {
			e.minutes = task.Timer
			if !e.t.State().Running {
				e.t.Reset(task.Timer)
			}
		}
	}

	for id, e := range s.timers {
		if !seen[id] {
			e.t.Close()
			delete(s.timers, id)
		}
	}
}

func (s *timerSet) newTimer(task model.Task) *timer.Timer {
	id := task.ID
	return timer.New(task.Timer*60,
		timer.WithScheduler(s.sched),
		timer.OnChange(func(st timer.State) {
			// Views read timers directly, a dropped change only delays a redraw
			select {
			case s.events <- timerMsg{TaskID: id, State: st}:
			default:
			}
		}),
		timer.OnComplete(func() {
			// Blocks until the program reads it: completion is never dropped
			select {
			case s.events <- timerDoneMsg{TaskID: id}:
			case <-s.done:
			}
		}),
	)
}

func (s *timerSet) get(id string) (*timer.Timer, int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.timers[id]
	if !ok {
		return nil, 0, false
	}
	return e.t, e.minutes, true
}

func (s *timerSet) state(id string) (timer.State, bool) {
	t, _, ok := s.get(id)
	if !ok {
		return timer.State{}, false
	}
	return t.State(), true
}

// wait delivers the next timer event to the program
func (s *timerSet) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-s.events:
			return msg
		case <-s.done:
			return nil
		}
	}
}

// close stops every timer and releases waiting senders
func (s *timerSet) close() {
	s.once.Do(func() {
		close(s.done)
		s.mu.Lock()
		defer s.mu.Unlock()
		for id, e := range s.timers {
			e.t.Close()
			delete(s.timers, id)
		}
	})
}
