package tui

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/existflow/pintask/internal/timer"
)

// tickMsg is sent every second for the header clock
type tickMsg time.Time

// refreshMsg is sent when the store state changed
type refreshMsg struct{}

// Init initializes the model with a tick command
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.waitForRefresh(), m.timers.wait())
}

func tickCmd() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitForRefresh listens for store change signals
func (m Model) waitForRefresh() tea.Cmd {
	return func() tea.Msg {
		<-m.refresh
		return refreshMsg{}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		return m, tickCmd()

	case refreshMsg:
		m.loadState()
		return m, m.waitForRefresh()

	case timerMsg:
		m.mirrorTimer(msg.TaskID, msg.State)
		return m, m.timers.wait()

	case timerDoneMsg:
		return m.handleTimerDone(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// Handle mode-specific input
		switch m.mode {
		case ModeAddTask, ModeEditTask, ModeSetTimer:
			return m.updateInput(msg)
		case ModeEditNote:
			return m.updateNoteEdit(msg)
		case ModeSearch:
			return m.updateSearch(msg)
		case ModeHelp:
			m.mode = ModeNormal
			return m, nil
		}

		// Normal mode key handling
		return m.handleNormalKeys(msg)
	}

	return m, nil
}

// handleNormalKeys handles key presses in normal mode
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Tab):
		if m.pane == PaneTasks {
			m.pane = PaneNotes
		} else {
			m.pane = PaneTasks
		}

	case key.Matches(msg, keys.Up):
		m.handleUp()

	case key.Matches(msg, keys.Down):
		m.handleDown()

	case key.Matches(msg, keys.Float):
		m.dispatch(store.SetFloating{Enabled: !m.state.IsPiPMode})

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.NewNote):
		return m.startNewNote()

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Escape):
		if m.search != "" {
			m.search = ""
			m.message = "Search cleared"
		}
		if m.state.IsPiPMode {
			m.dispatch(store.SetFloating{Enabled: false})
		}

	default:
		if m.pane == PaneNotes {
			return m.handleNoteKeys(msg)
		}
		return m.handleTaskKeys(msg)
	}

	return m, nil
}

func (m Model) handleTaskKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Add):
		return m.startAddTask()

	case key.Matches(msg, keys.Edit):
		return m.startEditTask()

	case key.Matches(msg, keys.Done), key.Matches(msg, keys.Enter):
		m.handleToggleDone()

	case key.Matches(msg, keys.Delete):
		m.handleDeleteTask()

	case key.Matches(msg, keys.Timer):
		m.handleTimerToggle()

	case key.Matches(msg, keys.SetTimer):
		return m.startSetTimer()

	case key.Matches(msg, keys.Stop):
		if t, _, ok := m.focusedTimer(); ok {
			t.Stop()
			m.message = "Timer stopped"
		}

	case key.Matches(msg, keys.Reset):
		if t, minutes, ok := m.focusedTimer(); ok {
			t.Reset(minutes)
			m.message = "Timer reset"
		}

	case key.Matches(msg, keys.View):
		m.cycleFilter()
	}

	return m, nil
}

func (m Model) handleNoteKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := m.currentNote()
	if n == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		return m.startEditNote(*n)

	case key.Matches(msg, keys.Pin):
		m.board.TogglePin(m.state, n.ID)
		m.loadState()

	case key.Matches(msg, keys.Color):
		c := m.board.CycleColor(n.ID)
		m.message = fmt.Sprintf("Colour: %s", c)

	case key.Matches(msg, keys.Delete):
		m.board.Delete(n.ID)
		m.loadState()
		m.message = "Note deleted"
	}

	return m, nil
}

func (m *Model) dispatch(a store.Action) {
	m.store.Dispatch(a)
	m.loadState()
}

func (m *Model) handleUp() {
	if m.pane == PaneTasks {
		if m.taskCursor > 0 {
			m.taskCursor--
		}
		return
	}
	if m.noteCursor > 0 {
		m.noteCursor--
	}
}

func (m *Model) handleDown() {
	if m.pane == PaneTasks {
		if m.taskCursor < len(m.visibleTasks())-1 {
			m.taskCursor++
		}
		return
	}
	if m.noteCursor < len(m.visibleNotes())-1 {
		m.noteCursor++
	}
}

func (m *Model) cycleFilter() {
	switch m.filter {
	case model.FilterAll:
		m.filter = model.FilterActive
	case model.FilterActive:
		m.filter = model.FilterCompleted
	default:
		m.filter = model.FilterAll
	}
	m.syncTimers()
	m.message = fmt.Sprintf("Showing %s tasks", m.filter)
}

func (m *Model) handleToggleDone() {
	task := m.currentTask()
	if task == nil {
		return
	}
	m.dispatch(store.ToggleTask{ID: task.ID})
	if task.Completed {
		m.message = fmt.Sprintf("Reopened: %s", task.Title)
	} else {
		m.message = fmt.Sprintf("Completed: %s", task.Title)
	}
}

func (m *Model) handleDeleteTask() {
	task := m.currentTask()
	if task == nil {
		return
	}
	m.dispatch(store.DeleteTask{ID: task.ID})
	m.message = fmt.Sprintf("Deleted: %s", task.Title)
}

// focusedTimer returns the timer of the task under the cursor
func (m Model) focusedTimer() (*timer.Timer, int, bool) {
	task := m.currentTask()
	if task == nil {
		return nil, 0, false
	}
	return m.timers.get(task.ID)
}

func (m *Model) handleTimerToggle() {
	task := m.currentTask()
	if task == nil {
		return
	}
	t, minutes, ok := m.timers.get(task.ID)
	if !ok {
		m.message = "No timer on this task (press t to set one)"
		return
	}

	st := t.State()
	switch {
	case st.Running:
		t.Pause()
		m.message = "Timer paused"
	case st.TimeLeft > 0 && st.StartedAt != nil:
		t.Resume()
		m.message = "Timer resumed"
	default:
		t.Start(minutes)
		// Record when the countdown began
		started := t.State().StartedAt
		if started != nil {
			updated := *task
			updated.TimerStartTime = started
			m.dispatch(store.UpdateTask{Task: updated})
		}
		m.message = fmt.Sprintf("Timer started: %s", task.Title)
	}
}

// mirrorTimer copies the focused task's timer into the shared timer record
// so floating viewers can show it.
func (m *Model) mirrorTimer(taskID string, st timer.State) {
	task := m.currentTask()
	if task == nil || task.ID != taskID {
		return
	}
	left := st.TimeLeft
	running := st.Running
	if m.state.Timer.TimeLeft == left && m.state.Timer.IsRunning == running {
		return
	}
	m.dispatch(store.PatchTimer{TimeLeft: &left, IsRunning: &running})
}

func (m Model) handleTimerDone(msg timerDoneMsg) (tea.Model, tea.Cmd) {
	title := "Timer"
	if task, ok := model.FindTask(m.state.Todos, msg.TaskID); ok {
		title = task.Title
	}
	logger.Info("Task timer completed", logger.F("task", msg.TaskID))
	m.message = fmt.Sprintf("⏰ Time's up: %s", title)
	m.mirrorTimer(msg.TaskID, timer.State{Completed: true})

	cmds := []tea.Cmd{m.timers.wait()}
	if m.opts.Bell {
		cmds = append(cmds, bellCmd)
	}
	return m, tea.Batch(cmds...)
}

func bellCmd() tea.Msg {
	fmt.Fprint(os.Stderr, "\a")
	return nil
}

func (m Model) startAddTask() (tea.Model, tea.Cmd) {
	m.mode = ModeAddTask
	m.input.Reset()
	m.input.Placeholder = "Enter task..."
	return m, m.input.Focus()
}

func (m Model) startEditTask() (tea.Model, tea.Cmd) {
	task := m.currentTask()
	if task == nil {
		return m, nil
	}
	m.mode = ModeEditTask
	m.input.SetValue(task.Title)
	m.input.CursorEnd()
	return m, m.input.Focus()
}

func (m Model) startSetTimer() (tea.Model, tea.Cmd) {
	task := m.currentTask()
	if task == nil {
		return m, nil
	}
	m.mode = ModeSetTimer
	m.pending = nil
	m.input.Reset()
	m.input.Placeholder = "Minutes (blank for none)"
	if task.HasTimer() {
		m.input.SetValue(strconv.Itoa(task.Timer))
		m.input.CursorEnd()
	}
	return m, m.input.Focus()
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		if m.mode == ModeSetTimer && m.pending != nil {
			// Keep the new task without a timer
			m.dispatch(store.AddTask{Task: *m.pending})
			m.message = fmt.Sprintf("Added: %s", m.pending.Title)
			m.pending = nil
		}
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil

	case key.Matches(msg, keys.Enter):
		value := strings.TrimSpace(m.input.Value())

		switch m.mode {
		case ModeAddTask:
			if value == "" {
				break
			}
			// Ask for an optional timer next
			task := model.NewTask(value, "", 0)
			m.pending = &task
			m.mode = ModeSetTimer
			m.input.Reset()
			m.input.Placeholder = "Minutes (blank for none)"
			return m, nil

		case ModeEditTask:
			task := m.currentTask()
			if task != nil && value != "" {
				updated := *task
				updated.Title = value
				m.dispatch(store.UpdateTask{Task: updated})
				m.message = fmt.Sprintf("Updated: %s", value)
			}

		case ModeSetTimer:
			minutes := 0
			if value != "" {
				n, err := strconv.Atoi(value)
				if err != nil || n < 0 {
					m.message = "Timer must be a whole number of minutes"
					return m, nil
				}
				minutes = n
			}
			if m.pending != nil {
				m.pending.Timer = minutes
				m.dispatch(store.AddTask{Task: *m.pending})
				m.message = fmt.Sprintf("Added: %s", m.pending.Title)
				m.pending = nil
			} else if task := m.currentTask(); task != nil {
				updated := *task
				updated.Timer = minutes
				m.dispatch(store.UpdateTask{Task: updated})
				m.message = fmt.Sprintf("Timer set: %dm", minutes)
			}
		}

		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) startNewNote() (tea.Model, tea.Cmd) {
	m.pane = PaneNotes
	m.session = m.board.Create()
	m.loadState()
	return m.openNoteEditor()
}

func (m Model) startEditNote(n model.Note) (tea.Model, tea.Cmd) {
	m.session = m.board.Edit(n)
	return m.openNoteEditor()
}

func (m Model) openNoteEditor() (tea.Model, tea.Cmd) {
	m.mode = ModeEditNote
	m.input.Reset()
	m.input.Placeholder = "Title..."
	m.input.SetValue(m.session.Title)
	m.content.SetValue(m.session.Content)
	m.content.Blur()
	return m, m.input.Focus()
}

func (m Model) updateNoteEdit(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.session.Discard()
		m.session = nil
		m.mode = ModeNormal
		m.input.Blur()
		m.content.Blur()
		return m, nil

	case key.Matches(msg, keys.Tab):
		if m.input.Focused() {
			m.input.Blur()
			return m, m.content.Focus()
		}
		m.content.Blur()
		return m, m.input.Focus()

	case key.Matches(msg, keys.Enter):
		m.session.Title = m.input.Value()
		m.session.Content = m.content.Value()
		if _, kept := m.session.Save(); kept {
			m.message = "Note saved"
		} else {
			m.message = "Empty note removed"
		}
		m.session = nil
		m.mode = ModeNormal
		m.input.Blur()
		m.content.Blur()
		m.loadState()
		return m, nil
	}

	var cmd tea.Cmd
	if m.input.Focused() {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.content, cmd = m.content.Update(msg)
	}
	return m, cmd
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.pane = PaneNotes
	m.mode = ModeSearch
	m.input.Reset()
	m.input.Placeholder = "Search notes..."
	m.input.SetValue(m.search)
	return m, m.input.Focus()
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		m.search = ""
		m.mode = ModeNormal
		m.input.Blur()
		m.noteCursor = 0
		return m, nil

	case key.Matches(msg, keys.Enter):
		m.mode = ModeNormal
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	m.search = m.input.Value()
	m.noteCursor = clamp(m.noteCursor, len(m.visibleNotes()))
	return m, cmd
}
