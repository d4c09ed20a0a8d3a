// Package store holds the application state and the single dispatch path
// that mutates it.
package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
)

// Persister reads and writes the durable collections
type Persister interface {
	LoadTasks(ctx context.Context) ([]model.Task, bool, error)
	LoadNotes(ctx context.Context) ([]model.Note, bool, error)
	SaveTasks(ctx context.Context, tasks []model.Task) error
	SaveNotes(ctx context.Context, notes []model.Note) error
}

// Broadcaster announces the full state to secondary contexts. It must not block.
type Broadcaster interface {
	Broadcast(state model.AppState)
}

// Store owns the application state
type Store struct {
	mu      sync.Mutex
	state   model.AppState
	persist Persister
	bcast   Broadcaster
	ctx     context.Context

	subMu     sync.Mutex
	subs      map[int]func(model.AppState)
	nextSubID int
}

// New creates a store with the empty state. persist and bcast may be nil.
func New(persist Persister, bcast Broadcaster) *Store {
	return &Store{
		state:   model.EmptyState(),
		persist: persist,
		bcast:   bcast,
		ctx:     context.Background(),
		subs:    map[int]func(model.AppState){},
	}
}

// State returns a deep copy of the current state
func (s *Store) State() model.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Dispatch applies a, persists the collections it changed, broadcasts the
// result and notifies subscribers. It returns the new state.
func (s *Store) Dispatch(a Action) model.AppState {
	if a == nil {
		return s.State()
	}

	s.mu.Lock()
	next, change := Reduce(s.state, a)
	s.state = next
	snapshot := next.Clone()
	s.effectsLocked(change, snapshot)
	s.mu.Unlock()

	logger.Debug("Action dispatched",
		logger.F("action", fmt.Sprintf("%T", a)),
		logger.F("todos", change.Todos),
		logger.F("notes", change.Notes))

	s.notify(snapshot)
	return snapshot
}

// Load reads each collection once and replays every record through the add
// actions. A collection that cannot be read starts empty.
func (s *Store) Load(ctx context.Context) model.AppState {
	if s.persist == nil {
		return s.State()
	}

	tasks, _, err := s.persist.LoadTasks(ctx)
	loadedTasks := err == nil
	if err != nil {
		logger.Warn("Failed to load tasks, starting empty", logger.F("error", err))
		tasks = nil
	}

	notes, _, err := s.persist.LoadNotes(ctx)
	loadedNotes := err == nil
	if err != nil {
		logger.Warn("Failed to load notes, starting empty", logger.F("error", err))
		notes = nil
	}

	s.mu.Lock()
	var change Change
	for _, t := range tasks {
		var c Change
		s.state, c = Reduce(s.state, AddTask{Task: t})
		change.Todos = change.Todos || c.Todos
	}
	for _, n := range notes {
		var c Change
		s.state, c = Reduce(s.state, AddNote{Note: n})
		change.Notes = change.Notes || c.Notes
	}
	// Leave unreadable data where it is until a real change replaces it.
	change.Todos = change.Todos && loadedTasks
	change.Notes = change.Notes && loadedNotes
	snapshot := s.state.Clone()
	s.effectsLocked(change, snapshot)
	s.mu.Unlock()

	logger.Info("State loaded",
		logger.F("todos", len(snapshot.Todos)),
		logger.F("notes", len(snapshot.Notes)))

	s.notify(snapshot)
	return snapshot
}

// Subscribe registers fn to receive every new state. fn runs on the
// dispatching goroutine and must not block. The returned func unsubscribes.
func (s *Store) Subscribe(fn func(model.AppState)) func() {
	s.subMu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) effectsLocked(change Change, snapshot model.AppState) {
	if s.persist != nil {
		if change.Todos {
			if err := s.persist.SaveTasks(s.ctx, snapshot.Todos); err != nil {
				logger.Warn("Failed to persist tasks", logger.F("error", err))
			}
		}
		if change.Notes {
			if err := s.persist.SaveNotes(s.ctx, snapshot.Notes); err != nil {
				logger.Warn("Failed to persist notes", logger.F("error", err))
			}
		}
	}
	if s.bcast != nil {
		s.bcast.Broadcast(snapshot)
	}
}

func (s *Store) notify(snapshot model.AppState) {
	s.subMu.Lock()
	fns := make([]func(model.AppState), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(snapshot.Clone())
	}
}
