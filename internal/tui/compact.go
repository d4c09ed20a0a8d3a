package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/timer"
)

const (
	compactTasks = 5
	compactNotes = 3
)

// RenderCompact draws the floating view of a state: the shared timer, the
// first open tasks and the pinned notes.
func RenderCompact(s model.AppState, width int) string {
	if width < 20 {
		width = 20
	}
	inner := width - 4
	var b strings.Builder

	active, completed := model.CountTasks(s.Todos)
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(Primary).Render("pintask"))
	b.WriteString(HelpStyle.Render(fmt.Sprintf("  %d open · %d done", active, completed)))
	b.WriteString("\n")

	if s.Timer.TimeLeft > 0 || s.Timer.IsRunning {
		st := timer.State{TimeLeft: s.Timer.TimeLeft, Running: s.Timer.IsRunning}
		b.WriteString(FormatTimer(st))
		b.WriteString("\n")
	}

	open := model.FilterTasks(s.Todos, model.FilterActive)
	if len(open) == 0 {
		b.WriteString(HelpStyle.Render("Nothing to do"))
		b.WriteString("\n")
	}
	for i, t := range open {
		if i == compactTasks {
			b.WriteString(HelpStyle.Render(fmt.Sprintf("… +%d more", len(open)-compactTasks)))
			b.WriteString("\n")
			break
		}
		line := "[ ] " + truncate(t.Title, inner-4)
		if t.HasTimer() {
			line = "[ ] " + truncate(t.Title, inner-10) + HelpStyle.Render(fmt.Sprintf(" %dm", t.Timer))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	shown := 0
	for _, n := range model.SortNotes(s.Notes) {
		if !n.Pinned || shown == compactNotes {
			break
		}
		label := n.Title
		if label == "" {
			label, _, _ = strings.Cut(n.Content, "\n")
		}
		b.WriteString("📌 " + truncate(label, inner-3))
		b.WriteString("\n")
		shown++
	}

	return FloatStyle.Width(width - 2).Render(strings.TrimRight(b.String(), "\n"))
}
