package cli

import (
	"fmt"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/spf13/cobra"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove completed tasks",
	Long: `Remove completed tasks from the list.
With --all every task and note is removed.`,
	RunE: runClear,
}

var (
	clearAll   bool
	clearForce bool
)

func init() {
	clearCmd.Flags().BoolVar(&clearAll, "all", false, "Remove all tasks and notes")
	clearCmd.Flags().BoolVar(&clearForce, "force", false, "Do not ask for confirmation")
}

func runClear(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	question := "Remove completed tasks?"
	if clearAll {
		question = "Remove ALL tasks and notes?"
	}
	if !clearForce && !confirm(question) {
		fmt.Fprintln(out, "Aborted.")
		return nil
	}

	state := a.store.State()
	if clearAll {
		empty := model.EmptyState()
		empty.Timer = state.Timer
		empty.IsPiPMode = state.IsPiPMode
		a.store.Dispatch(store.SyncState{State: empty})
		fmt.Fprintf(out, "✓ Removed %d tasks and %d notes\n", len(state.Todos), len(state.Notes))
		return nil
	}

	removed := 0
	for _, t := range model.FilterTasks(state.Todos, model.FilterCompleted) {
		a.store.Dispatch(store.DeleteTask{ID: t.ID})
		removed++
	}
	fmt.Fprintf(out, "✓ Removed %d completed tasks\n", removed)
	return nil
}
