package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/existflow/pintask/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List tasks",
	Long: `List tasks in the order they were added.

Examples:
  pintask list
  pintask list --active
  pintask list --done`,
	RunE: runList,
}

var (
	listActive bool
	listDone   bool
)

func init() {
	listCmd.Flags().BoolVarP(&listActive, "active", "a", false, "Only open tasks")
	listCmd.Flags().BoolVar(&listDone, "done", false, "Only completed tasks")
}

func runList(cmd *cobra.Command, args []string) error {
	if listActive && listDone {
		return fmt.Errorf("cannot use both --active and --done")
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	filter := model.FilterAll
	switch {
	case listActive:
		filter = model.FilterActive
	case listDone:
		filter = model.FilterCompleted
	}

	all := a.store.State().Todos
	tasks := model.FilterTasks(all, filter)
	out := cmd.OutOrStdout()

	if len(tasks) == 0 {
		fmt.Fprintln(out, "No tasks found. Add one with: pintask add \"Your task\"")
		return nil
	}

	active, completed := model.CountTasks(all)
	fmt.Fprintf(out, "\n📋 Tasks (%d active, %d completed)\n", active, completed)
	fmt.Fprintln(out, strings.Repeat("─", 60))
	for _, t := range tasks {
		printTask(out, t, time.Now())
	}
	fmt.Fprintln(out)
	return nil
}

func printTask(out io.Writer, t model.Task, now time.Time) {
	icon := "[ ]"
	if t.Completed {
		icon = "[x]"
	}

	due := ""
	if t.DueDate != nil {
		due = t.DueDate.Format("Jan 2")
		if t.IsOverdue(now) {
			due = "! " + due
		}
	}

	timer := ""
	if t.HasTimer() {
		timer = fmt.Sprintf("⏱ %dm", t.Timer)
	}

	// Truncate title if too long
	title := t.Title
	if len([]rune(title)) > 40 {
		title = string([]rune(title)[:37]) + "..."
	}

	fmt.Fprintf(out, "  %s  %-8s  %-40s  %-10s  %s\n", icon, model.ShortID(t.ID), title, due, timer)
}
