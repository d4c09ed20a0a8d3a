package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/existflow/pintask/internal/broadcast"
	"github.com/existflow/pintask/internal/config"
	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/notes"
	"github.com/existflow/pintask/internal/storage"
	"github.com/existflow/pintask/internal/store"
	"golang.org/x/term"
)

// app wires storage, store and broadcast hub for one command
type app struct {
	cfg     *config.Config
	adapter *storage.Adapter
	hub     *broadcast.Hub
	store   *store.Store
	board   *notes.Board
}

func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// openApp opens the configured storage and loads the saved state
func openApp(ctx context.Context) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := currentConfig()

	pass, err := passphrase(cfg)
	if err != nil {
		return nil, err
	}

	adapter, err := storage.Open(ctx, storage.Options{
		Driver:     cfg.Storage,
		DSN:        cfg.DSN,
		DataDir:    cfg.DataDir,
		Passphrase: pass,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	hub := broadcast.NewHub(16)
	st := store.New(adapter, hub)
	st.Load(ctx)

	return &app{
		cfg:     cfg,
		adapter: adapter,
		hub:     hub,
		store:   st,
		board:   notes.NewBoard(st),
	}, nil
}

// Close closes the storage backend
func (a *app) Close() {
	if err := a.adapter.Close(); err != nil {
		logger.Warn("Failed to close storage", logger.F("error", err))
		return
	}
	logger.Info("Storage closed")
}

// passphrase returns the key for sealed storage, prompting when needed
func passphrase(cfg *config.Config) (string, error) {
	if p := os.Getenv("PINTASK_PASSPHRASE"); p != "" {
		return p, nil
	}
	if !cfg.Encrypt {
		return "", nil
	}
	if !term.IsTerminal(int(syscall.Stdin)) {
		return "", fmt.Errorf("storage is encrypted: set PINTASK_PASSPHRASE")
	}

	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read passphrase: %w", err)
	}
	p := strings.TrimSpace(string(b))
	if p == "" {
		return "", fmt.Errorf("passphrase required")
	}
	return p, nil
}

// confirm asks a yes/no question on a terminal. Without one it answers yes.
func confirm(question string) bool {
	if !term.IsTerminal(int(syscall.Stdin)) {
		return true
	}
	fmt.Printf("%s [y/N]: ", question)
	var answer string
	_, _ = fmt.Scanln(&answer)
	return strings.EqualFold(answer, "y")
}
