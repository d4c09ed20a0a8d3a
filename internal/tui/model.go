package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/notes"
	"github.com/existflow/pintask/internal/store"
	"github.com/existflow/pintask/internal/timer"
)

// Pane represents which pane is focused
type Pane int

const (
	PaneTasks Pane = iota
	PaneNotes
)

// Mode represents the current UI mode
type Mode int

const (
	ModeNormal Mode = iota
	ModeAddTask
	ModeEditTask
	ModeSetTimer
	ModeEditNote
	ModeSearch
	ModeHelp
)

// Store is the application store as seen by the UI
type Store interface {
	State() model.AppState
	Dispatch(a store.Action) model.AppState
	Subscribe(fn func(model.AppState)) func()
}

// Options tunes the UI
type Options struct {
	Bell      bool            // Ring the terminal bell when a timer completes
	Scheduler timer.Scheduler // Tick source for task timers, nil for real time
}

// Model is the main TUI model
type Model struct {
	store  Store
	board  *notes.Board
	opts   Options
	state  model.AppState
	timers *timerSet

	// refresh is signalled by the store subscription
	refresh     chan struct{}
	unsubscribe func()

	// UI state
	width      int
	height     int
	pane       Pane
	mode       Mode
	taskCursor int
	noteCursor int
	filter     model.TaskFilter
	search     string

	// Input
	input   textinput.Model
	content textinput.Model
	session *notes.Session
	pending *model.Task // Task being added, waiting for its timer

	message string
}

// NewModel creates a new TUI model. Close it after the program exits.
func NewModel(st Store, board *notes.Board, opts Options) Model {
	logger.Info("Initializing TUI model")

	ti := textinput.New()
	ti.Placeholder = "Enter task..."
	ti.CharLimit = 256
	ti.Width = 50

	ci := textinput.New()
	ci.Placeholder = "Content..."
	ci.CharLimit = 2048
	ci.Width = 50

	m := Model{
		store:   st,
		board:   board,
		opts:    opts,
		timers:  newTimerSet(opts.Scheduler),
		refresh: make(chan struct{}, 1), // Buffered to avoid blocking
		pane:    PaneTasks,
		mode:    ModeNormal,
		filter:  model.FilterAll,
		input:   ti,
		content: ci,
	}

	m.unsubscribe = st.Subscribe(func(model.AppState) {
		// Non-blocking: one pending refresh covers any number of changes
		select {
		case m.refresh <- struct{}{}:
		default:
		}
	})

	m.loadState()
	logger.Debug("TUI model initialized",
		logger.F("todos", len(m.state.Todos)),
		logger.F("notes", len(m.state.Notes)))
	return m
}

// Close unsubscribes from the store and stops all task timers
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	m.timers.close()
}

func (m *Model) loadState() {
	m.state = m.store.State()
	m.syncTimers()
	m.noteCursor = clamp(m.noteCursor, len(m.visibleNotes()))
}

// syncTimers keeps one countdown per displayed task. A task the filter hides
// loses its timer and starts fresh from its duration when shown again.
func (m *Model) syncTimers() {
	visible := m.visibleTasks()
	m.timers.sync(visible)
	m.taskCursor = clamp(m.taskCursor, len(visible))
}

func (m Model) visibleTasks() []model.Task {
	return model.FilterTasks(m.state.Todos, m.filter)
}

func (m Model) visibleNotes() []model.Note {
	return model.SortNotes(model.SearchNotes(m.state.Notes, m.search))
}

func (m Model) currentTask() *model.Task {
	tasks := m.visibleTasks()
	if m.taskCursor < len(tasks) {
		return &tasks[m.taskCursor]
	}
	return nil
}

func (m Model) currentNote() *model.Note {
	ns := m.visibleNotes()
	if m.noteCursor < len(ns) {
		return &ns[m.noteCursor]
	}
	return nil
}
