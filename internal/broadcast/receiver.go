package broadcast

import (
	"context"

	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
)

// Dispatcher accepts store actions
type Dispatcher interface {
	Dispatch(a store.Action) model.AppState
}

// Receiver turns inbound STATE_UPDATE messages into whole-state replaces
type Receiver struct {
	d Dispatcher
}

// NewReceiver creates a receiver dispatching into d
func NewReceiver(d Dispatcher) *Receiver {
	return &Receiver{d: d}
}

// Handle applies one raw message. It reports whether state was replaced;
// malformed messages and other kinds are dropped.
func (r *Receiver) Handle(raw []byte) bool {
	env, err := Decode(raw)
	if err != nil || env.Type != TypeStateUpdate {
		logger.Debug("Inbound message ignored", logger.F("bytes", len(raw)))
		return false
	}
	r.d.Dispatch(store.SyncState{State: *env.Data})
	logger.Debug("Inbound snapshot applied",
		logger.F("todos", len(env.Data.Todos)),
		logger.F("notes", len(env.Data.Notes)))
	return true
}

// Run handles messages from in until it is closed or ctx is done
func (r *Receiver) Run(ctx context.Context, in <-chan []byte) {
	for {
		select {
		case raw, ok := <-in:
			if !ok {
				return
			}
			r.Handle(raw)
		case <-ctx.Done():
			return
		}
	}
}
