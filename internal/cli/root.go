package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/existflow/pintask/internal/config"
	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/tui"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
	logFormat  string
	storageOpt string

	// appConfig is loaded once per invocation by the root pre-run
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pintask",
	Short: "pintask - Tasks and sticky notes that stay on top",
	Long: `pintask is a terminal task list and sticky-notes board with per-task
countdown timers and a compact floating view.

Run 'pintask' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			cfg = config.DefaultConfig()
		}

		// Flags given on the command line stick for later runs
		if applyFlagOverrides(cmd, cfg) {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}
		appConfig = cfg

		if err := logger.Init(logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024,
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
			Format:     logger.Format(cfg.LogFormat),
		}); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		logger.Debug("Command starting",
			logger.F("command", cmd.CommandPath()),
			logger.F("storage", cfg.Storage))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			logger.Error("Failed to open storage", logger.F("error", err))
			return err
		}
		defer a.Close()

		logger.Info("Launching TUI")
		m := tui.NewModel(a.store, a.board, tui.Options{Bell: a.cfg.Bell})
		defer m.Close()
		p := tea.NewProgram(m, tea.WithAltScreen())

		if _, err := p.Run(); err != nil {
			logger.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		logger.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Debug("Command finished", logger.F("command", cmd.CommandPath()))
		logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// applyFlagOverrides copies changed persistent flags into cfg and reports
// whether anything changed
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) bool {
	flags := cmd.Flags()
	overrides := []struct {
		name  string
		apply func()
	}{
		{"log-level", func() { cfg.LogLevel = logLevel }},
		{"log-file", func() { cfg.LogFile = logFile }},
		{"log-console", func() { cfg.LogConsole = logConsole }},
		{"log-format", func() { cfg.LogFormat = logFormat }},
		{"storage", func() { cfg.Storage = storageOpt }},
	}

	changed := false
	for _, o := range overrides {
		if flags.Changed(o.name) {
			o.apply()
			changed = true
		}
	}
	return changed
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log line format (text, json)")
	rootCmd.PersistentFlags().StringVar(&storageOpt, "storage", "", "Storage backend (file, sqlite, postgres)")

	rootCmd.AddCommand(addCmd, listCmd, doneCmd, deleteCmd, clearCmd)
	rootCmd.AddCommand(noteCmd, timerCmd)
	rootCmd.AddCommand(serveCmd, watchCmd, syncCmd)
}
