package store

import "github.com/existflow/pintask/internal/model"

// Change reports which persisted sub-trees a transition touched
type Change struct {
	Todos bool
	Notes bool
}

// Action is a state transition. The set is closed: every variant lives in this
// file and supplies its own transition, so a new variant cannot compile without one.
type Action interface {
	apply(s model.AppState) (model.AppState, Change)
}

// AddTask appends a task
type AddTask struct{ Task model.Task }

// UpdateTask replaces the task with the same id
type UpdateTask struct{ Task model.Task }

// DeleteTask removes the task with ID
type DeleteTask struct{ ID string }

// ToggleTask flips the completion flag of the task with ID
type ToggleTask struct{ ID string }

// AddNote appends a note
type AddNote struct{ Note model.Note }

// UpdateNote replaces the note with the same id
type UpdateNote struct{ Note model.Note }

// DeleteNote removes the note with ID
type DeleteNote struct{ ID string }

// SetTimer replaces the shared timer record
type SetTimer struct{ Timer model.TimerState }

// PatchTimer changes only the fields that are set
type PatchTimer struct {
	TimeLeft  *int
	IsRunning *bool
}

// SetFloating switches floating mode
type SetFloating struct{ Enabled bool }

// SyncState replaces the whole state with an external snapshot
type SyncState struct{ State model.AppState }

func (a AddTask) apply(s model.AppState) (model.AppState, Change) {
	todos := make([]model.Task, 0, len(s.Todos)+1)
	todos = append(todos, s.Todos...)
	s.Todos = append(todos, a.Task.Clone())
	return s, Change{Todos: true}
}

func (a UpdateTask) apply(s model.AppState) (model.AppState, Change) {
	i := taskIndex(s.Todos, a.Task.ID)
	if i < 0 {
		return s, Change{}
	}
	s.Todos = cloneTasks(s.Todos)
	s.Todos[i] = a.Task.Clone()
	return s, Change{Todos: true}
}

func (a DeleteTask) apply(s model.AppState) (model.AppState, Change) {
	i := taskIndex(s.Todos, a.ID)
	if i < 0 {
		return s, Change{}
	}
	todos := make([]model.Task, 0, len(s.Todos)-1)
	todos = append(todos, s.Todos[:i]...)
	s.Todos = append(todos, s.Todos[i+1:]...)
	return s, Change{Todos: true}
}

func (a ToggleTask) apply(s model.AppState) (model.AppState, Change) {
	i := taskIndex(s.Todos, a.ID)
	if i < 0 {
		return s, Change{}
	}
	s.Todos = cloneTasks(s.Todos)
	s.Todos[i].Completed = !s.Todos[i].Completed
	return s, Change{Todos: true}
}

func (a AddNote) apply(s model.AppState) (model.AppState, Change) {
	notes := make([]model.Note, 0, len(s.Notes)+1)
	notes = append(notes, s.Notes...)
	s.Notes = append(notes, a.Note)
	return s, Change{Notes: true}
}

func (a UpdateNote) apply(s model.AppState) (model.AppState, Change) {
	i := noteIndex(s.Notes, a.Note.ID)
	if i < 0 {
		return s, Change{}
	}
	notes := make([]model.Note, len(s.Notes))
	copy(notes, s.Notes)
	notes[i] = a.Note
	s.Notes = notes
	return s, Change{Notes: true}
}

func (a DeleteNote) apply(s model.AppState) (model.AppState, Change) {
	i := noteIndex(s.Notes, a.ID)
	if i < 0 {
		return s, Change{}
	}
	notes := make([]model.Note, 0, len(s.Notes)-1)
	notes = append(notes, s.Notes[:i]...)
	s.Notes = append(notes, s.Notes[i+1:]...)
	return s, Change{Notes: true}
}

func (a SetTimer) apply(s model.AppState) (model.AppState, Change) {
	s.Timer = normalizeTimer(a.Timer)
	return s, Change{}
}

func (a PatchTimer) apply(s model.AppState) (model.AppState, Change) {
	t := s.Timer
	if a.TimeLeft != nil {
		t.TimeLeft = *a.TimeLeft
	}
	if a.IsRunning != nil {
		t.IsRunning = *a.IsRunning
	}
	s.Timer = normalizeTimer(t)
	return s, Change{}
}

func (a SetFloating) apply(s model.AppState) (model.AppState, Change) {
	s.IsPiPMode = a.Enabled
	return s, Change{}
}

func (a SyncState) apply(_ model.AppState) (model.AppState, Change) {
	next := a.State.Clone()
	next.Timer = normalizeTimer(next.Timer)
	return next, Change{Todos: true, Notes: true}
}

// normalizeTimer keeps timeLeft non-negative and never running at zero
func normalizeTimer(t model.TimerState) model.TimerState {
	if t.TimeLeft < 0 {
		t.TimeLeft = 0
	}
	if t.TimeLeft == 0 {
		t.IsRunning = false
	}
	return t
}

func taskIndex(tasks []model.Task, id string) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func noteIndex(notes []model.Note, id string) int {
	for i := range notes {
		if notes[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneTasks(tasks []model.Task) []model.Task {
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}
