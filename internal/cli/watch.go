package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/existflow/pintask/internal/broadcast"
	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/tui"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow a running pintask serve in a compact view",
	Long: `Attach to a pintask server and redraw a compact view of the tasks,
notes and timer on every change.

Examples:
  pintask watch
  pintask watch --url http://localhost:9000 --once`,
	RunE: runWatch,
}

var (
	watchURL   string
	watchOnce  bool
	watchWidth int
)

func init() {
	watchCmd.Flags().StringVar(&watchURL, "url", "", "Server URL (default from config)")
	watchCmd.Flags().BoolVar(&watchOnce, "once", false, "Print the current state and exit")
	watchCmd.Flags().IntVarP(&watchWidth, "width", "w", 40, "View width")
}

func serverURL(flag string) string {
	if flag != "" {
		return flag
	}
	addr := currentConfig().ServerAddr
	if addr == "" {
		return broadcast.DefaultServerURL
	}
	return "http://" + displayAddr(addr)
}

func runWatch(cmd *cobra.Command, args []string) error {
	url := serverURL(watchURL)
	remote := broadcast.NewRemote(url)
	out := cmd.OutOrStdout()

	if watchOnce {
		state, err := remote.Fetch(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(out, tui.RenderCompact(state, watchWidth))
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Watching server", logger.F("url", url))
	remote.Follow(ctx, func(state model.AppState) {
		// Clear screen and home the cursor
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprintln(out, tui.RenderCompact(state, watchWidth))
	})
	return nil
}
