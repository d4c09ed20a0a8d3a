// Package server exposes the live application state to secondary contexts
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/existflow/pintask/internal/broadcast"
	"github.com/existflow/pintask/internal/model"
	"github.com/existflow/pintask/internal/store"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Store is the part of the application store the server needs
type Store interface {
	State() model.AppState
	Dispatch(a store.Action) model.AppState
}

// Server is the attach point for secondary contexts
type Server struct {
	store     Store
	hub       *broadcast.Hub
	receiver  *broadcast.Receiver
	echo      *echo.Echo
	keepAlive time.Duration
}

// New creates a server over st. hub must be the broadcaster st was built with.
func New(st Store, hub *broadcast.Hub) *Server {
	s := &Server{
		store:     st,
		hub:       hub,
		receiver:  broadcast.NewReceiver(st),
		keepAlive: 15 * time.Second,
	}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.CORS())

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")
	api.GET("/state", s.handleState)
	api.GET("/events", s.handleEvents)
	api.POST("/messages", s.handleMessage)

	s.echo = e
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown stops accepting connections and waits for handlers to finish
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status": "ok",
		"peers":  s.hub.Peers(),
	})
}
