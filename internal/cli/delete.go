package cli

import (
	"fmt"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:     "delete [task-id]",
	Aliases: []string{"rm"},
	Short:   "Delete a task",
	Long: `Delete a task by its ID.

Examples:
  pintask delete 0190a3f2
  pintask rm 0190a3f2 --force`,
	Args: cobra.ExactArgs(1),
	RunE: runDelete,
}

var deleteForce bool

func init() {
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "Do not ask for confirmation")
}

func runDelete(cmd *cobra.Command, args []string) error {
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
	if !deleteForce && !confirm(fmt.Sprintf("Delete \"%s\" (ID: %s)?", task.Title, model.ShortID(task.ID))) {
		fmt.Fprintln(out, "Cancelled.")
		return nil
	}

	a.store.Dispatch(store.DeleteTask{ID: task.ID})
	fmt.Fprintf(out, "🗑️  Deleted: \"%s\"\n", task.Title)
	return nil
}
