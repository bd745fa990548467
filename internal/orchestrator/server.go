package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"github.com/skinarb/skinarb/internal/profit"
	"github.com/skinarb/skinarb/internal/telemetry"
)

// Server is the read-only operator HTTP surface (/healthz, /metrics,
// /opportunities), grounded on interfaces/http/server.go's local-only
// mux.Router + middleware chain, narrowed to the three endpoints this
// system needs instead of a momentum-scanner's candidate/explain/regime
// surface.
type Server struct {
	router      *mux.Router
	httpServer  *http.Server
	telemetry   *telemetry.Registry
	archiveLoad func() (*profit.Archive, error)
}

type ServerConfig struct {
	Host string
	Port int
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{Host: "127.0.0.1", Port: 8090}
}

func NewServer(cfg ServerConfig, tel *telemetry.Registry, archiveLoad func() (*profit.Archive, error)) (*Server, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("port %d is busy or unavailable: %w", cfg.Port, err)
	}
	listener.Close()

	s := &Server{
		router:      mux.NewRouter(),
		telemetry:   tel,
		archiveLoad: archiveLoad,
	}
	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.loggingMiddleware)

	s.router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	s.router.Handle("/metrics", s.telemetry.Handler()).Methods(http.MethodGet)
	s.router.HandleFunc("/opportunities", s.handleOpportunities).Methods(http.MethodGet)
}

func (s *Server) ListenAndServe() error { return s.httpServer.ListenAndServe() }

func (s *Server) Shutdown(ctx context.Context) error { return s.httpServer.Shutdown(ctx) }

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleOpportunities(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.archiveLoad == nil {
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]any{"current": nil})
		return
	}
	archive, err := s.archiveLoad()
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(archive)
}

func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()[:8]
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("operator request")
	})
}
