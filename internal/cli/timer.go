package cli

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/existflow/pintask/internal/timer"
	"github.com/spf13/cobra"
)

var timerCmd = &cobra.Command{
	Use:   "timer [task-id]",
	Short: "Run a countdown in the terminal",
	Long: `Run a countdown for a task's configured duration, or for --minutes.
Press Ctrl+C to stop.

Examples:
  pintask timer 0190a3f2
  pintask timer --minutes 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTimer,
}

var timerMinutes int

func init() {
	timerCmd.Flags().IntVarP(&timerMinutes, "minutes", "m", 0, "Countdown length in minutes")
}

func runTimer(cmd *cobra.Command, args []string) error {
	minutes := timerMinutes
	label := "Timer"
	cfg := currentConfig()

	if len(args) == 1 {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		task, ok := model.FindTask(a.store.State().Todos, args[0])
		if !ok {
			a.Close()
			return fmt.Errorf("task not found: %s", args[0])
		}
		if !cmd.Flags().Changed("minutes") {
			minutes = task.Timer
		}
		label = task.Title

		if minutes <= 0 {
			a.Close()
			return fmt.Errorf("no timer configured: pass --minutes")
		}

		now := time.Now()
		task.TimerStartTime = &now
		a.store.Dispatch(store.UpdateTask{Task: task})
		a.Close()
	}

	if minutes <= 0 {
		return fmt.Errorf("no timer configured: pass --minutes")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	done := make(chan struct{})
	t := timer.New(0,
		timer.OnChange(func(s timer.State) {
			fmt.Fprintf(out, "\r⏱  %s  %s ", timer.Format(s.TimeLeft), label)
		}),
		timer.OnComplete(func() { close(done) }),
	)
	defer t.Close()

	t.Start(minutes)

	select {
	case <-done:
		fmt.Fprintf(out, "\n✓ Time's up: %s\n", label)
		if cfg.Bell {
			fmt.Fprint(out, "\a")
		}
	case <-ctx.Done():
		left := t.State().TimeLeft
		t.Stop()
		fmt.Fprintf(out, "\n○ Stopped with %s left\n", timer.Format(left))
	}
	return nil
}
