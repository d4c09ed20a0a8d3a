package model

// TimerState is the shared timer record kept in the application state.
// Per-task timers are authoritative; this mirrors the focused one.
type TimerState struct {
	TimeLeft  int  `json:"timeLeft"`
	IsRunning bool `json:"isRunning"`
}

// AppState is the root aggregate owned by the store
type AppState struct {
	Todos     []Task     `json:"todos"`
	Notes     []Note     `json:"notes"`
	Timer     TimerState `json:"timer"`
	IsPiPMode bool       `json:"isPiPMode"` // Floating mode
}

// EmptyState returns the initial aggregate
func EmptyState() AppState {
	return AppState{
		Todos: []Task{},
		Notes: []Note{},
	}
}

// Clone returns a deep copy of the state
func (s AppState) Clone() AppState {
	out := s
	out.Todos = make([]Task, len(s.Todos))
	for i, t := range s.Todos {
		out.Todos[i] = t.Clone()
	}
	out.Notes = make([]Note, len(s.Notes))
	copy(out.Notes, s.Notes)
	return out
}
