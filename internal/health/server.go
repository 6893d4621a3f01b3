// Package health exposes an optional HTTP endpoint for liveness checks, metrics and a
// read-only view of the stored events.
package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pfrederiksen/countdown-bot/internal/event"
	"github.com/pfrederiksen/countdown-bot/internal/logger"
)

// EventLoader is the part of the store the server reads from
type EventLoader interface {
	Load() ([]event.Event, error)
}

// MetricsFunc returns the current metrics snapshot
type MetricsFunc func() map[string]interface{}

// Server wraps the HTTP server and its router
type Server struct {
	router *mux.Router
	srv    *http.Server
}

// NewServer builds the router for addr
func NewServer(addr string, store EventLoader, metrics MetricsFunc) *Server {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics())
	}).Methods(http.MethodGet)

	r.HandleFunc("/events", func(w http.ResponseWriter, r *http.Request) {
		events, err := store.Load()
		if err != nil {
			logger.Error("Loading events for HTTP failed", nil, err)
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not load events"})
			return
		}
		writeJSON(w, http.StatusOK, events)
	}).Methods(http.MethodGet)

	return &Server{
		router: r,
		srv: &http.Server{
			Handler:      r,
			Addr:         addr,
			WriteTimeout: 15 * time.Second,
			ReadTimeout:  15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("Health server listening", logger.Fields{"addr": s.srv.Addr})
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("Writing HTTP response failed", logger.Fields{"error": err.Error()})
	}
}
