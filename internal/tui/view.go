package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/pintask/internal/model"
)

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.state.IsPiPMode && m.mode == ModeNormal {
		return m.renderFloating()
	}

	taskPane := m.renderTaskPane()
	notePane := m.renderNotePane()
	statusBar := m.renderStatusBar()

	mainContent := lipgloss.JoinHorizontal(lipgloss.Top, taskPane, notePane)

	// Add modal if in input mode
	switch m.mode {
	case ModeAddTask, ModeEditTask, ModeSetTimer, ModeEditNote:
		mainContent = lipgloss.Place(
			m.width, m.height-2,
			lipgloss.Center, lipgloss.Center,
			m.renderModal(),
			lipgloss.WithWhitespaceChars(" "),
		)
	case ModeHelp:
		mainContent = m.renderHelp()
	}

	return lipgloss.JoinVertical(lipgloss.Left, mainContent, statusBar)
}

func (m Model) paneWidths() (int, int) {
	left := m.width * 3 / 5
	return left, m.width - left
}

func (m Model) renderTaskPane() string {
	width, _ := m.paneWidths()
	var s string

	titleStyle := PaneTitleStyle
	if m.pane == PaneTasks {
		titleStyle = PaneFocusedTitleStyle
	}

	active, completed := model.CountTasks(m.state.Todos)
	header := fmt.Sprintf("Tasks · %s (%d active, %d done)", m.filter, active, completed)
	s += titleStyle.Render(header) + "  " + HelpStyle.Render(time.Now().Format("15:04")) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", max(width-4, 0))) + "\n\n"

	tasks := m.visibleTasks()
	if len(tasks) == 0 {
		s += HelpStyle.Render("  No tasks. Press 'a' to add one.")
	}

	now := time.Now()
	for i, t := range tasks {
		cursor := "  "
		style := TaskItemStyle
		if i == m.taskCursor && m.pane == PaneTasks {
			cursor = "❯ "
			style = TaskItemSelectedStyle
		}

		icon := "[ ]"
		if t.Completed {
			icon = "[x]"
			style = TaskDoneStyle
		}

		badge := ""
		if st, ok := m.timers.state(t.ID); ok {
			badge = FormatTimer(st)
		}
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("Jan 2")
			if t.IsOverdue(now) {
				due = lipgloss.NewStyle().Foreground(Overdue).Render(due)
			}
		}

		titleWidth := max(width-36, 10)
		line := style.Render(fmt.Sprintf("%s%s %-*s", cursor, icon, titleWidth, truncate(t.Title, titleWidth)))
		s += line + " " + due + " " + badge + "\n"
	}

	return PaneStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderNotePane() string {
	_, width := m.paneWidths()
	var s string

	titleStyle := PaneTitleStyle
	if m.pane == PaneNotes {
		titleStyle = PaneFocusedTitleStyle
	}

	header := fmt.Sprintf("Notes (%d)", len(m.state.Notes))
	if m.search != "" {
		header += "  /" + m.search
	}
	s += titleStyle.Render(header) + "\n"
	s += lipgloss.NewStyle().Foreground(Border).Render(repeat("─", max(width-4, 0))) + "\n"

	ns := m.visibleNotes()
	if len(ns) == 0 {
		s += "\n" + HelpStyle.Render("  No notes. Press 'n' to add one.")
	}

	cardWidth := max(width-8, 12)
	for i, n := range ns {
		title := n.Title
		if title == "" {
			title = "Untitled"
		}
		if n.Pinned {
			title = "📌 " + title
		}
		body := lipgloss.NewStyle().Bold(true).Render(truncate(title, cardWidth-2))
		if n.Content != "" {
			first, _, _ := strings.Cut(n.Content, "\n")
			body += "\n" + truncate(first, cardWidth-2)
		}
		body += "\n" + HelpStyle.Render(n.UpdatedAt.Format("Jan 2 15:04"))

		card := NoteStyle(m.board.Color(n.ID)).Width(cardWidth)
		if i == m.noteCursor && m.pane == PaneNotes {
			card = card.BorderStyle(lipgloss.ThickBorder())
		}
		s += card.Render(body) + "\n"
	}

	return PaneStyle.Width(width).Height(m.height - 2).Render(s)
}

func (m Model) renderStatusBar() string {
	if m.mode == ModeSearch {
		return StatusBarStyle.Width(m.width).Render("/" + m.input.View())
	}

	help := "a:add  e:edit  x:done  d:del  s:timer  t:set timer  n:note  p:pin  /:search  f:float  ?:help  q:quit"
	if m.message != "" {
		help = m.message
	}
	return StatusBarStyle.Width(m.width).Render(help)
}

func (m Model) renderModal() string {
	title := "Add Task"
	switch m.mode {
	case ModeEditTask:
		title = "Edit Task"
	case ModeSetTimer:
		title = "Timer (minutes)"
		if m.pending != nil {
			title = fmt.Sprintf("Timer for: %s", truncate(m.pending.Title, 30))
		}
	case ModeEditNote:
		title = "Edit Note"
	}

	content := lipgloss.NewStyle().Bold(true).Render(title) + "\n\n"
	content += m.input.View() + "\n\n"
	hint := "Enter:save  Esc:cancel"
	if m.mode == ModeEditNote {
		content += m.content.View() + "\n\n"
		hint = "Tab:switch field  Enter:save  Esc:cancel"
	}
	content += HelpStyle.Render(hint)

	return ModalStyle.Render(content)
}

func (m Model) renderFloating() string {
	view := RenderCompact(m.state, min(m.width, 44))
	return view + "\n" + HelpStyle.Render("f/esc: full view  q: quit")
}

func (m Model) renderHelp() string {
	help := `
╭─── Keyboard Shortcuts ───╮
│                          │
│  Navigation              │
│  ──────────              │
│  j/↓    Move down        │
│  k/↑    Move up          │
│  Tab    Switch pane      │
│  v      All/active/done  │
│                          │
│  Tasks                   │
│  ─────                   │
│  a       Add task        │
│  e       Edit title      │
│  x/Enter Toggle done     │
│  d       Delete          │
│  t       Set timer       │
│  s/Space Start/pause     │
│  S       Stop timer      │
│  R       Reset timer     │
│                          │
│  Notes                   │
│  ─────                   │
│  n       New note        │
│  e/Enter Edit note       │
│  p       Pin/unpin       │
│  c       Change colour   │
│  /       Search          │
│                          │
│  Other                   │
│  ─────                   │
│  f       Floating view   │
│  ?       Toggle help     │
│  q       Quit            │
│                          │
╰──────────────────────────╯

     Press any key to close
`
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, help)
}
