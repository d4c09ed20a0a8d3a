// Package notes implements note editing on top of the store: edit sessions,
// blank-note cleanup, pinning and card colours.
package notes

import (
	"strings"
	"sync"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
)

// Dispatcher accepts store actions
type Dispatcher interface {
	Dispatch(a store.Action) model.AppState
}

// Board mediates every note mutation made by the UI
type Board struct {
	d     Dispatcher
	clock Clock

	mu     sync.Mutex
	colors map[string]Color
}

type Option func(*Board)

// WithClock sets the clock used for created and updated instants
func WithClock(c Clock) Option {
	return func(b *Board) { b.clock = c }
}

// NewBoard creates a board dispatching into d
func NewBoard(d Dispatcher, opts ...Option) *Board {
	b := &Board{d: d, clock: RealClock{}, colors: map[string]Color{}}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Create adds an empty note and opens an edit session on it
func (b *Board) Create() *Session {
	n := model.NewNote()
	now := b.clock.Now()
	n.CreatedAt = now
	n.UpdatedAt = now
	b.d.Dispatch(store.AddNote{Note: n})
	return &Session{b: b, note: n, Title: n.Title, Content: n.Content}
}

// Edit opens an edit session on an existing note
func (b *Board) Edit(n model.Note) *Session {
	return &Session{b: b, note: n, Title: n.Title, Content: n.Content}
}

// TogglePin flips the pinned flag of the note with id
func (b *Board) TogglePin(state model.AppState, id string) bool {
	n, ok := findExact(state.Notes, id)
	if !ok {
		return false
	}
	n.Pinned = !n.Pinned
	n.UpdatedAt = b.clock.Now()
	b.d.Dispatch(store.UpdateNote{Note: n})
	return true
}

// Delete removes the note with id
func (b *Board) Delete(id string) {
	b.d.Dispatch(store.DeleteNote{ID: id})
	b.mu.Lock()
	delete(b.colors, id)
	b.mu.Unlock()
}

// Session is an open edit of one note. Title and Content hold the draft.
type Session struct {
	b    *Board
	note model.Note
	done bool

	Title   string
	Content string
}

// ID returns the id of the note under edit
func (s *Session) ID() string { return s.note.ID }

// Save commits the draft. Surrounding whitespace is trimmed and a note left
// blank is deleted. It reports whether the note still exists.
func (s *Session) Save() (model.Note, bool) {
	if s.done {
		return s.note, false
	}
	s.done = true

	n := s.note
	n.Title = strings.TrimSpace(s.Title)
	n.Content = strings.TrimSpace(s.Content)
	if n.IsBlank() {
		s.b.Delete(n.ID)
		return model.Note{}, false
	}
	n.UpdatedAt = s.b.clock.Now()
	s.b.d.Dispatch(store.UpdateNote{Note: n})
	s.note = n
	return n, true
}

// Discard closes the session and leaves the stored note untouched
func (s *Session) Discard() {
	s.done = true
}

func findExact(notes []model.Note, id string) (model.Note, bool) {
	for _, n := range notes {
		if n.ID == id {
			return n, true
		}
	}
	return model.Note{}, false
}
