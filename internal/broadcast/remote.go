package broadcast

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/pintask/internal/logger"
	"github.com/existflow/pintask/internal/model"
)

// DefaultServerURL is where a local pintask serve listens
const DefaultServerURL = "http://localhost:8765"

// Remote is a secondary context talking to a pintask server
type Remote struct {
	baseURL    string
	httpClient *http.Client
	// stream has no timeout, the event stream stays open
	stream *http.Client

	RetryInterval time.Duration
}

// NewRemote creates a client for the server at baseURL
func NewRemote(baseURL string) *Remote {
	if baseURL == "" {
		baseURL = DefaultServerURL
	}
	return &Remote{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: 30 * time.Second},
		stream:        &http.Client{},
		RetryInterval: 5 * time.Second,
	}
}

// Fetch returns the server's current snapshot
func (r *Remote) Fetch(ctx context.Context) (model.AppState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/v1/state", nil)
	if err != nil {
		return model.AppState{}, err
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return model.AppState{}, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return model.AppState{}, fmt.Errorf("fetch failed: %s", strings.TrimSpace(string(body)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.AppState{}, err
	}
	env, err := Decode(raw)
	if err != nil {
		return model.AppState{}, fmt.Errorf("unexpected state payload")
	}
	s, _ := env.Snapshot()
	return s, nil
}

// Push sends state to the server as a STATE_UPDATE. It reports whether the
// server applied it.
func (r *Remote) Push(ctx context.Context, state model.AppState) (bool, error) {
	body, err := json.Marshal(NewStateUpdate(state))
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/api/v1/messages", bytes.NewReader(body))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return false, fmt.Errorf("push failed: %s", strings.TrimSpace(string(respBody)))
	}

	var result struct {
		Applied bool `json:"applied"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}
	return result.Applied, nil
}

// Subscribe reads the server's event stream and calls fn with every
// SYNC_STATE snapshot until ctx is done or the stream ends.
func (r *Remote) Subscribe(ctx context.Context, fn func(model.AppState)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/api/v1/events", nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := r.stream.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("subscribe failed: %s", resp.Status)
	}

	err = readEvents(resp.Body, func(data []byte) {
		env, err := Decode(data)
		if err != nil || env.Type != TypeSyncState {
			return
		}
		fn(*env.State)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// Follow keeps a subscription open, reconnecting after RetryInterval
// whenever the stream drops, until ctx is done.
func (r *Remote) Follow(ctx context.Context, fn func(model.AppState)) {
	ticker := time.NewTicker(r.RetryInterval)
	defer ticker.Stop()

	for {
		if err := r.Subscribe(ctx, fn); err != nil {
			logger.Debug("Event stream dropped", logger.F("error", err))
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

// readEvents splits a text/event-stream body into event payloads
func readEvents(body io.Reader, fn func(data []byte)) error {
	sc := bufio.NewScanner(body)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)

	var data []byte
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			if len(data) > 0 {
				fn(data)
				data = nil
			}
		case strings.HasPrefix(line, "data:"):
			chunk := strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " ")
			if len(data) > 0 {
				data = append(data, '\n')
			}
			data = append(data, chunk...)
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if len(data) > 0 {
		fn(data)
	}
	return nil
}
