package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Task represents a single todo item
type Task struct {
	ID             string     `json:"id"`
	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Completed      bool       `json:"completed"`
	CreatedAt      time.Time  `json:"createdAt"`
	DueDate        *time.Time `json:"dueDate,omitempty"`
	Timer          int        `json:"timer,omitempty"`          // Configured duration in minutes, 0 = none
	TimerStartTime *time.Time `json:"timerStartTime,omitempty"` // When the timer was last started
}

// TaskFilter selects which tasks a view shows
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterActive    TaskFilter = "active"
	FilterCompleted TaskFilter = "completed"
)

// NewID returns a fresh time-ordered identifier
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// NewTask creates a new task with a fresh id. Title and description are trimmed,
// a non-positive timer means no timer.
func NewTask(title, description string, timerMinutes int) Task {
	if timerMinutes < 0 {
		timerMinutes = 0
	}
	return Task{
		ID:          NewID(),
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now(),
		Timer:       timerMinutes,
	}
}

// HasTimer returns true if the task carries a timer configuration
func (t *Task) HasTimer() bool {
	return t.Timer > 0
}

// IsOverdue returns true if the task is open and past its due date
func (t *Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Completed {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return t.DueDate.Before(today)
}

// Clone returns a copy that shares no pointers with t
func (t Task) Clone() Task {
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	if t.TimerStartTime != nil {
		s := *t.TimerStartTime
		t.TimerStartTime = &s
	}
	return t
}

// FilterTasks returns the tasks matching f, preserving order
func FilterTasks(tasks []Task, f TaskFilter) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		switch f {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// CountTasks returns the number of active and completed tasks
func CountTasks(tasks []Task) (active, completed int) {
	for _, t := range tasks {
		if t.Completed {
			completed++
		} else {
			active++
		}
	}
	return active, completed
}

// FindTask looks a task up by full id or a unique id prefix or suffix
func FindTask(tasks []Task, ref string) (Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, false
	}
	var match Task
	n := 0
	for _, t := range tasks {
		if t.ID == ref {
			return t, true
		}
		if matchesRef(t.ID, ref) {
			match = t
			n++
		}
	}
	return match, n == 1
}

// ShortID is the random tail of an id. Leading characters of time-ordered
// ids are shared by everything created around the same time.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func matchesRef(id, ref string) bool {
	return strings.HasPrefix(id, ref) || strings.HasSuffix(id, ref)
}
