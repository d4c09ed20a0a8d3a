package cli

import (
	"fmt"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/spf13/cobra"
)

var doneCmd = &cobra.Command{
	Use:   "done [task-id]",
	Short: "Mark a task as done",
	Long: `Mark a task as completed. The id may be shortened to any unique prefix or suffix.

Examples:
  pintask done 0190a3f2
  pintask done 0190a3f2 --undo`,
	Args: cobra.ExactArgs(1),
	RunE: runDone,
}

var doneUndo bool

func init() {
	doneCmd.Flags().BoolVar(&doneUndo, "undo", false, "Mark task as not done")
}

func runDone(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	task, ok := model.FindTask(a.store.State().Todos, args[0])
	if !ok {
		return fmt.Errorf("task not found: %s", args[0])
	}

	out := cmd.OutOrStdout()
	want := !doneUndo
	if task.Completed == want {
		fmt.Fprintf(out, "Nothing to do: \"%s\"\n", task.Title)
		return nil
	}

	a.store.Dispatch(store.ToggleTask{ID: task.ID})

	if want {
		fmt.Fprintf(out, "✓ Completed: \"%s\"\n", task.Title)
	} else {
		fmt.Fprintf(out, "○ Reopened: \"%s\"\n", task.Title)
	}
	return nil
}
