// Package broadcast moves full-state snapshots between the primary context
// and any attached secondary contexts.
package broadcast

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/existflow/pintask/internal/model"
)

const (
	// Version is the envelope schema this build writes and accepts
	Version = 1

	// TypeSyncState is sent outbound on every state change
	TypeSyncState = "SYNC_STATE"
	// TypeStateUpdate is received from a secondary context and replaces local state
	TypeStateUpdate = "STATE_UPDATE"
)

var errIgnored = errors.New("message ignored")

// Envelope is the wire format for cross-context messages
type Envelope struct {
	Version int             `json:"version"`
	Type    string          `json:"type"`
	State   *model.AppState `json:"state,omitempty"` // Outbound payload
	Data    *model.AppState `json:"data,omitempty"`  // Inbound payload
}

// NewSyncState wraps state as an outbound message
func NewSyncState(state model.AppState) Envelope {
	return Envelope{Version: Version, Type: TypeSyncState, State: &state}
}

// NewStateUpdate wraps state as an inbound message
func NewStateUpdate(state model.AppState) Envelope {
	return Envelope{Version: Version, Type: TypeStateUpdate, Data: &state}
}

// Snapshot returns the payload carried by the envelope's kind
func (e Envelope) Snapshot() (model.AppState, bool) {
	switch e.Type {
	case TypeSyncState:
		if e.State != nil {
			return *e.State, true
		}
	case TypeStateUpdate:
		if e.Data != nil {
			return *e.Data, true
		}
	}
	return model.AppState{}, false
}

// wireEnvelope keeps payloads raw so a bad payload can be told apart from a missing one
type wireEnvelope struct {
	Version *int            `json:"version"`
	Type    string          `json:"type"`
	State   json.RawMessage `json:"state"`
	Data    json.RawMessage `json:"data"`
}

// Decode parses raw into an envelope of a known kind and version.
// Anything else is reported as ignored.
func Decode(raw []byte) (Envelope, error) {
	var w wireEnvelope
	if err := json.Unmarshal(raw, &w); err != nil {
		return Envelope{}, errIgnored
	}

	// Senders that predate versioning omit the field
	version := Version
	if w.Version != nil {
		version = *w.Version
	}
	if version != Version {
		return Envelope{}, errIgnored
	}

	env := Envelope{Version: version, Type: w.Type}
	switch w.Type {
	case TypeSyncState:
		s, ok := decodeState(w.State)
		if !ok {
			return Envelope{}, errIgnored
		}
		env.State = &s
	case TypeStateUpdate:
		s, ok := decodeState(w.Data)
		if !ok {
			return Envelope{}, errIgnored
		}
		env.Data = &s
	default:
		return Envelope{}, errIgnored
	}
	return env, nil
}

func decodeState(raw json.RawMessage) (model.AppState, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return model.AppState{}, false
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return model.AppState{}, false
	}
	// A snapshot always carries both collections
	if _, ok := probe["todos"]; !ok {
		return model.AppState{}, false
	}
	if _, ok := probe["notes"]; !ok {
		return model.AppState{}, false
	}

	var s model.AppState
	if err := json.Unmarshal(raw, &s); err != nil {
		return model.AppState{}, false
	}
	return s, true
}
