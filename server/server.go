package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/transit-tools/line-uptime/engine"
	"github.com/transit-tools/line-uptime/uptime"
)

// Server is the read-only query surface over the line state store.
type Server struct {
	httpServer *http.Server
	store      *uptime.Store
	engine     *engine.Engine
}

// New builds the HTTP server on the given port.
func New(port int, store *uptime.Store, eng *engine.Engine) *Server {
	s := &Server{store: store, engine: eng}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.HandleFunc("GET /api/lines", s.handleLines)
	mux.HandleFunc("GET /api/lines/{line}/status", s.handleStatus)
	mux.HandleFunc("GET /api/lines/{line}/uptime", s.handleUptime)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Start begins serving in a goroutine.
func (s *Server) Start() {
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Printf("server listening on %s", s.httpServer.Addr)
}

// Shutdown stops the server, waiting for in-flight requests up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
