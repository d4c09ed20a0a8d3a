package cli

import (
	"fmt"

	"github.com/existflow/pintask/internal/broadcast"
	"github.com/existflow/pintask/internal/store"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Exchange state with a running pintask serve",
	Long: `Copy the whole state between this machine's storage and a running server.
The last write wins, nothing is merged.

Commands:
  pintask sync --push        # Replace the server state with local state
  pintask sync --pull        # Replace local state with the server state
  pintask sync status        # Show server status`,
	RunE: runSync,
}

var syncStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show server status",
	RunE:  runSyncStatus,
}

var syncURL string

func init() {
	syncCmd.AddCommand(syncStatusCmd)

	syncCmd.PersistentFlags().StringVar(&syncURL, "url", "", "Server URL (default from config)")
	syncCmd.Flags().Bool("pull", false, "Replace local state with the server state")
	syncCmd.Flags().Bool("push", false, "Replace the server state with local state")
}

func runSync(cmd *cobra.Command, args []string) error {
	pull, _ := cmd.Flags().GetBool("pull")
	push, _ := cmd.Flags().GetBool("push")

	if pull == push {
		return fmt.Errorf("use exactly one of --pull or --push")
	}

	remote := broadcast.NewRemote(serverURL(syncURL))
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	if pull {
		fmt.Fprintln(out, "⚠️  Replacing local data with the server state...")
		state, err := remote.Fetch(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync failed: %w", err)
		}
		a.store.Dispatch(store.SyncState{State: state})
		fmt.Fprintf(out, "✓ Pulled %d tasks and %d notes\n", len(state.Todos), len(state.Notes))
		return nil
	}

	fmt.Fprintln(out, "⚠️  Replacing server data with local state...")
	state := a.store.State()
	applied, err := remote.Push(cmd.Context(), state)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}
	if !applied {
		return fmt.Errorf("sync failed: server ignored the update")
	}
	fmt.Fprintf(out, "✓ Pushed %d tasks and %d notes\n", len(state.Todos), len(state.Notes))
	return nil
}

func runSyncStatus(cmd *cobra.Command, args []string) error {
	url := serverURL(syncURL)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Server:    %s\n", url)
	state, err := broadcast.NewRemote(url).Fetch(cmd.Context())
	if err != nil {
		fmt.Fprintln(out, "Status:    ✗ Unreachable")
		return nil
	}
	fmt.Fprintln(out, "Status:    ✓ Online")
	fmt.Fprintf(out, "Tasks:     %d\n", len(state.Todos))
	fmt.Fprintf(out, "Notes:     %d\n", len(state.Notes))
	return nil
}
