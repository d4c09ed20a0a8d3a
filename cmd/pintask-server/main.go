package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/existflow/pintask/internal/broadcast"
	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/storage"
	"github.com/existflow/pintask/internal/store"
	"github.com/existflow/pintask/server"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	port := getEnv("PORT", "8765")

	if err := logger.Init(logger.Config{
		Level:    logger.ParseLevel(getEnv("PINTASK_LOG_LEVEL", "INFO")),
		FilePath: os.Getenv("PINTASK_LOG_FILE"),
		Console:  true,
		Format:   logger.Format(getEnv("PINTASK_LOG_FORMAT", "json")),
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter, err := storage.Open(ctx, storage.Options{
		Driver:     getEnv("PINTASK_STORAGE", storage.DriverPostgres),
		DSN:        getEnv("DATABASE_URL", "postgres://localhost:5432/pintask?sslmode=disable"),
		DataDir:    os.Getenv("PINTASK_DATA_DIR"),
		Passphrase: os.Getenv("PINTASK_PASSPHRASE"),
	})
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer func() {
		if err := adapter.Close(); err != nil {
			log.Printf("Error closing storage: %v", err)
		}
	}()

	hub := broadcast.NewHub(16)
	st := store.New(adapter, hub)
	st.Load(ctx)

	srv := server.New(st, hub)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}
	}()

	logger.Info("pintask sync server starting", logger.F("port", port))
	if err := srv.Start(":" + port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed: %v", err)
	}
}
