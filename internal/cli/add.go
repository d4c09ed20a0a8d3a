package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add [title]",
	Short: "Add a new task",
	Long: `Add a new task to the list.

Examples:
  pintask add "Buy groceries"
  pintask add "Write report" --timer 25
  pintask add "Pay rent" --due tomorrow --desc "transfer before noon"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAdd,
}

var (
	addDesc  string
	addDue   string
	addTimer int
)

func init() {
	addCmd.Flags().StringVar(&addDesc, "desc", "", "Task description")
	addCmd.Flags().StringVarP(&addDue, "due", "d", "", "Due date (e.g., 'tomorrow', '2024-01-15', '+3d')")
	addCmd.Flags().IntVarP(&addTimer, "timer", "t", 0, "Timer duration in minutes")
}

func runAdd(cmd *cobra.Command, args []string) error {
	title := strings.TrimSpace(strings.Join(args, " "))
	if title == "" {
		return fmt.Errorf("task title cannot be empty")
	}
	if addTimer < 0 {
		return fmt.Errorf("timer must be a positive number of minutes")
	}

	task := model.NewTask(title, addDesc, addTimer)
	if addDue != "" {
		due, err := parseDue(addDue, time.Now())
		if err != nil {
			return err
		}
		task.DueDate = &due
	}

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	a.store.Dispatch(store.AddTask{Task: task})

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "✓ Added: \"%s\" (%s)", task.Title, model.ShortID(task.ID))
	if task.HasTimer() {
		fmt.Fprintf(out, " ⏱ %dm", task.Timer)
	}
	fmt.Fprintln(out)
	return nil
}

// parseDue understands today, tomorrow, +Nd and YYYY-MM-DD
func parseDue(s string, now time.Time) (time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch v := strings.ToLower(strings.TrimSpace(s)); {
	case v == "today":
		return today, nil
	case v == "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case strings.HasPrefix(v, "+") && strings.HasSuffix(v, "d"):
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(v, "+"), "d"))
		if err != nil || n < 0 {
			return time.Time{}, fmt.Errorf("invalid due date: %s", s)
		}
		return today.AddDate(0, 0, n), nil
	default:
		d, err := time.ParseInLocation("2006-01-02", v, now.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid due date: %s", s)
		}
		return d, nil
	}
}

