package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/existflow/pintask/internal/logger"
)

const DriverFile = "file"

// Options selects and configures a backend
type Options struct {
	Driver     string // file, sqlite or postgres
	DSN        string // Database path or connection string
	DataDir    string // Directory for the file backend and the default sqlite path
	Passphrase string // Non-empty enables the sealed backend
}

// Open builds the backend described by opts and wraps it in an Adapter
func Open(ctx context.Context, opts Options) (*Adapter, error) {
	var (
		backend Backend
		err     error
	)

	switch opts.Driver {
	case DriverFile, "":
		backend, err = NewFileBackend(opts.DataDir)
	case DriverSQLite:
		dsn := opts.DSN
		if dsn == "" {
			dsn = filepath.Join(opts.DataDir, "pintask.db")
		}
		backend, err = OpenSQL(DriverSQLite, dsn)
	case DriverPostgres:
		if opts.DSN == "" {
			return nil, fmt.Errorf("postgres storage needs a DSN")
		}
		backend, err = OpenSQL(DriverPostgres, opts.DSN)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	if opts.Passphrase != "" {
		sealed, err := NewSealedBackend(ctx, backend, opts.Passphrase)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("failed to open encrypted storage: %w", err)
		}
		backend = sealed
	}

	logger.Info("Storage opened",
		logger.F("driver", opts.Driver),
		logger.F("encrypted", opts.Passphrase != ""))
	return NewAdapter(backend), nil
}
