package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/pintask/internal/notes"
	"github.com/existflow/pintask/internal/timer"
)

// Color palette based on TUI design
var (
	// Timer colors
	TimerRunning   = lipgloss.Color("#95E1A3") // Green
	TimerPaused    = lipgloss.Color("#FFE66D") // Yellow
	TimerCompleted = lipgloss.Color("#FF6B6B") // Red

	// Status colors
	Completed = lipgloss.Color("#95E1A3") // Green
	Overdue   = lipgloss.Color("#FF6B6B") // Red

	// UI colors
	Primary    = lipgloss.Color("#4ECDC4")
	Secondary  = lipgloss.Color("#6C757D")
	Background = lipgloss.Color("#1a1a2e")
	Surface    = lipgloss.Color("#16213e")
	Text       = lipgloss.Color("#FFFFFF")
	TextMuted  = lipgloss.Color("#888888")
	Border     = lipgloss.Color("#333333")
	Highlight  = lipgloss.Color("#4ECDC4")
)

// noteColors maps note card colours to terminal colours
var noteColors = map[notes.Color]lipgloss.Color{
	notes.Yellow: lipgloss.Color("#FFE66D"),
	notes.Blue:   lipgloss.Color("#6CB4EE"),
	notes.Green:  lipgloss.Color("#95E1A3"),
	notes.Pink:   lipgloss.Color("#F7A1C4"),
	notes.Purple: lipgloss.Color("#B39DDB"),
}

// Styles
var (
	// Header
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(Primary).
			Padding(0, 1)

	// Panes
	PaneStyle = lipgloss.NewStyle().
			Padding(1, 2)

	PaneFocusedTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(Primary)

	PaneTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(TextMuted)

	// Task item
	TaskItemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	TaskItemSelectedStyle = lipgloss.NewStyle().
				Padding(0, 1).
				Background(Surface).
				Bold(true)

	TaskDoneStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Strikethrough(true).
			Padding(0, 1)

	// Note card
	NoteCardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(TextMuted).
			Padding(0, 1).
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(Border)

	// Input modal
	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(1, 2)

	// Floating compact view
	FloatStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Primary).
			Padding(0, 1)

	// Help text
	HelpStyle = lipgloss.NewStyle().
			Foreground(TextMuted)
)

// TimerStyle returns the style for a timer in the given status
func TimerStyle(s timer.Status) lipgloss.Style {
	switch s {
	case timer.StatusRunning:
		return lipgloss.NewStyle().Foreground(TimerRunning).Bold(true)
	case timer.StatusPaused:
		return lipgloss.NewStyle().Foreground(TimerPaused)
	case timer.StatusCompleted:
		return lipgloss.NewStyle().Foreground(TimerCompleted).Bold(true)
	default:
		return HelpStyle
	}
}

// NoteStyle returns the card style for a note colour
func NoteStyle(c notes.Color) lipgloss.Style {
	fg, ok := noteColors[c]
	if !ok {
		fg = noteColors[notes.Yellow]
	}
	return NoteCardStyle.BorderForeground(fg)
}

// FormatTimer renders a timer badge such as "▶ 24:59"
func FormatTimer(s timer.State) string {
	icon := "⏸"
	switch s.Status() {
	case timer.StatusRunning:
		icon = "▶"
	case timer.StatusCompleted:
		icon = "✓"
	case timer.StatusIdle:
		icon = "⏱"
	}
	return TimerStyle(s.Status()).Render(icon + " " + timer.Format(s.TimeLeft))
}
