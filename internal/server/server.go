// Package server provides the HTTP REST API over the storage facade.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/stack-ranker/internal/dal"
	"github.com/jonathan/stack-ranker/internal/metrics"
)

// Config holds server configuration.
type Config struct {
	Port int
}

// Server wires the HTTP layer to an injected DAL facade. It never knows
// which backend is behind the facade.
type Server struct {
	httpServer *http.Server
	store      dal.DAL
	log        *zap.SugaredLogger
	metrics    *metrics.Metrics
}

// New creates a server around the given facade.
func New(cfg Config, store dal.DAL, log *zap.SugaredLogger) *Server {
	s := &Server{
		store:   store,
		log:     log,
		metrics: metrics.New(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/opportunities", s.handleListOpportunities)
	mux.HandleFunc("POST /api/opportunities", s.handleCreateOpportunity)
	mux.HandleFunc("GET /api/opportunities/{id}", s.handleGetOpportunity)
	mux.HandleFunc("PUT /api/opportunities/{id}", s.handleUpdateOpportunity)
	mux.HandleFunc("DELETE /api/opportunities/{id}", s.handleDeleteOpportunity)

	mux.HandleFunc("GET /api/reps", s.handleListReps)
	mux.HandleFunc("GET /api/reps/{name}", s.handleGetRep)
	mux.HandleFunc("PUT /api/reps/{name}", s.handleUpdateRep)

	mux.HandleFunc("GET /api/config/stages", s.handleGetStages)
	mux.HandleFunc("PUT /api/config/stages", s.handleUpdateStages)

	mux.HandleFunc("GET /api/health", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRequestID(s.withObservability(s.withCORS(mux))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start listens for requests until an interrupt or termination signal,
// then shuts down gracefully and disconnects the storage backend.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.log.Infow("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Fatalw("server error", "error", err)
		}
	}()

	<-stop
	s.log.Infow("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	if err := s.store.Disconnect(ctx); err != nil {
		return fmt.Errorf("backend disconnect failed: %w", err)
	}

	s.log.Infow("server stopped")
	return nil
}

// handleHealth reports backend health: 200 when healthy, 503 otherwise.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.store.HealthCheck(r.Context()) {
		s.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "status": "healthy"})
		return
	}
	s.jsonResponse(w, http.StatusServiceUnavailable, map[string]any{"success": false, "status": "unhealthy"})
}

// jsonResponse writes a JSON response.
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Errorw("encoding response failed", "error", err)
	}
}

// dataResponse writes the success envelope used by every data endpoint.
func (s *Server) dataResponse(w http.ResponseWriter, status int, data any) {
	s.jsonResponse(w, status, map[string]any{"success": true, "data": data})
}

// errorResponse writes the failure envelope.
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]any{"success": false, "error": message})
}
