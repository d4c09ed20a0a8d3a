package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/existflow/pintask/internal/broadcast"
	"github.com/existflow/pintask/internal/logger"
	"github.com/labstack/echo/v4"
)

const maxMessageSize = 8 << 20

// handleState returns the current snapshot as a SYNC_STATE envelope
func (s *Server) handleState(c echo.Context) error {
	return c.JSON(http.StatusOK, broadcast.NewSyncState(s.store.State()))
}

// handleMessage accepts an inbound envelope. Shapes the receiver does not
// recognise are accepted and reported as not applied.
func (s *Server) handleMessage(c echo.Context) error {
	body, err := io.ReadAll(io.LimitReader(c.Request().Body, maxMessageSize+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "failed to read body"})
	}
	if len(body) > maxMessageSize {
		return c.JSON(http.StatusRequestEntityTooLarge, map[string]string{"error": "message too large"})
	}

	applied := s.receiver.Handle(body)
	return c.JSON(http.StatusAccepted, map[string]bool{"applied": applied})
}

// handleEvents streams SYNC_STATE envelopes, starting with the current state
func (s *Server) handleEvents(c echo.Context) error {
	peer := s.hub.Attach()
	defer s.hub.Detach(peer)

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)

	first, err := json.Marshal(broadcast.NewSyncState(s.store.State()))
	if err != nil {
		return err
	}
	if err := writeEvent(res, first); err != nil {
		return nil
	}

	ticker := time.NewTicker(s.keepAlive)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case msg, ok := <-peer.C:
			if !ok {
				return nil
			}
			if err := writeEvent(res, msg); err != nil {
				logger.Debug("Event stream closed", logger.F("error", err))
				return nil
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(res, ": keepalive\n\n"); err != nil {
				return nil
			}
			res.Flush()
		case <-ctx.Done():
			return nil
		}
	}
}

func writeEvent(res *echo.Response, data []byte) error {
	if _, err := fmt.Fprintf(res, "event: state\ndata: %s\n\n", data); err != nil {
		return err
	}
	res.Flush()
	return nil
}
