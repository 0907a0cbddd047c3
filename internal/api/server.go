package api

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
)

const defaultBroadcastInterval = 200 * time.Millisecond

// Server composes the HTTP API, the per-player rate limiter and the
// websocket state feed around one engine.
type Server struct {
	engine  EngineInterface
	limiter *PlayerRateLimiter
	hub     *StateHub
	httpSrv *http.Server
}

// NewServer wires the full API stack for the given engine.
func NewServer(engine EngineInterface, port int) *Server {
	limiter := NewPlayerRateLimiter(DefaultRateLimitConfig)
	hub := NewStateHub()

	router := NewRouter(RouterConfig{
		Engine:      engine,
		RateLimiter: limiter,
		Hub:         hub,
	})

	return &Server{
		engine:  engine,
		limiter: limiter,
		hub:     hub,
		httpSrv: &http.Server{
			Addr:         fmt.Sprintf(":%d", port),
			Handler:      router,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

// Start runs the server. Blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	go s.hub.Run()
	s.hub.StartBroadcastLoop(s.engine, defaultBroadcastInterval)

	log.Printf("🚀 Arena API listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and tears down the feed and limiter.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	s.hub.Stop()
	s.limiter.Stop()
	return err
}
