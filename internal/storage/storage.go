// Package storage persists the task and note collections.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
)

// Kind names a persisted collection. It doubles as the storage key.
type Kind string

const (
	KindTodos Kind = "todos"
	KindNotes Kind = "notes"
)

var (
	// ErrMalformed is returned when stored data cannot be decoded
	ErrMalformed = errors.New("malformed stored data")
	// ErrUnknownKind is returned for a collection this package does not know
	ErrUnknownKind = errors.New("unknown collection kind")
)

// Backend is durable key/value storage
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

// Adapter stores JSON snapshots of collections in a Backend
type Adapter struct {
	backend Backend
}

// NewAdapter creates an adapter over backend
func NewAdapter(backend Backend) *Adapter {
	return &Adapter{backend: backend}
}

// Close closes the underlying backend
func (a *Adapter) Close() error {
	return a.backend.Close()
}

// Save durably stores a snapshot of collection under kind
func (a *Adapter) Save(ctx context.Context, kind Kind, collection any) error {
	switch kind {
	case KindTodos, KindNotes:
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	data, err := json.Marshal(collection)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", kind, err)
	}
	if string(data) == "null" {
		data = []byte("[]")
	}

	if err := a.backend.Put(ctx, string(kind), data); err != nil {
		return fmt.Errorf("failed to save %s: %w", kind, err)
	}
	logger.Debug("Collection saved", logger.F("kind", kind), logger.F("bytes", len(data)))
	return nil
}

// Load returns the stored collection for kind as []model.Task or []model.Note.
// found is false when nothing was stored yet.
func (a *Adapter) Load(ctx context.Context, kind Kind) (collection any, found bool, err error) {
	switch kind {
	case KindTodos:
		return a.LoadTasks(ctx)
	case KindNotes:
		return a.LoadNotes(ctx)
	default:
		return nil, false, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}
}

// SaveTasks stores the task list
func (a *Adapter) SaveTasks(ctx context.Context, tasks []model.Task) error {
	return a.Save(ctx, KindTodos, tasks)
}

// SaveNotes stores the note list
func (a *Adapter) SaveNotes(ctx context.Context, notes []model.Note) error {
	return a.Save(ctx, KindNotes, notes)
}

// LoadTasks reads and upgrades the stored task list
func (a *Adapter) LoadTasks(ctx context.Context) ([]model.Task, bool, error) {
	data, ok, err := a.backend.Get(ctx, string(KindTodos))
	if err != nil || !ok {
		return nil, false, err
	}
	tasks, err := DecodeTasks(data)
	if err != nil {
		return nil, true, err
	}
	return tasks, true, nil
}

// LoadNotes reads and upgrades the stored note list
func (a *Adapter) LoadNotes(ctx context.Context) ([]model.Note, bool, error) {
	data, ok, err := a.backend.Get(ctx, string(KindNotes))
	if err != nil || !ok {
		return nil, false, err
	}
	notes, err := DecodeNotes(data)
	if err != nil {
		return nil, true, err
	}
	return notes, true, nil
}
