// Package webui serves a small read-only view of persisted pagerank runs:
// a recent-runs listing and each run's solved rank vector.
package webui

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/pagerank-bench/internal/repository"
	"github.com/pagerank-bench/internal/storage"
	"github.com/pagerank-bench/pkg/utils"
)

// Server serves the run-listing and rank-vector APIs over HTTP.
type Server struct {
	port    int
	logger  utils.Logger
	runRepo repository.RunRepository
	storage storage.Storage
	server  *http.Server
}

// NewServer creates a new web UI server backed by the given run repository
// and object storage.
func NewServer(port int, runRepo repository.RunRepository, store storage.Storage, logger utils.Logger) *Server {
	if logger == nil {
		logger = utils.NewDefaultLogger(utils.LevelInfo, nil)
	}
	return &Server{
		port:    port,
		logger:  logger,
		runRepo: runRepo,
		storage: store,
	}
}

// Start starts the web server.
func (s *Server) Start() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/runs", s.handleListRuns)
	mux.HandleFunc("/api/runs/", s.handleGetRun)
	mux.HandleFunc("/api/ranks/", s.handleGetRanks)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.logger.Info("Starting web server at http://localhost:%d", s.port)
	s.logger.Info("Press Ctrl+C to stop")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleHealth reports whether the backing repository is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.runRepo != nil {
		if _, err := s.runRepo.GetPendingRuns(r.Context(), 1); err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleListRuns returns the most recently created runs, newest first.
// Supports a "graph" query parameter to scope the listing to one graph's
// runs, and a "limit" parameter (default 50).
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if l := r.URL.Query().Get("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 {
			limit = n
		}
	}

	var err error
	var runs interface{}
	if graphName := r.URL.Query().Get("graph"); graphName != "" {
		runs, err = s.runRepo.ListRunsByGraph(r.Context(), graphName, limit)
	} else {
		runs, err = s.runRepo.ListRecentRuns(r.Context(), limit)
	}
	if err != nil {
		http.Error(w, "failed to list runs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, runs)
}

// handleGetRun returns a single run by UUID: GET /api/runs/{uuid}.
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	runUUID := pathSuffix(r.URL.Path, "/api/runs/")
	if runUUID == "" {
		http.Error(w, "run id is required", http.StatusBadRequest)
		return
	}

	run, err := s.runRepo.GetRunByUUID(r.Context(), runUUID)
	if err != nil {
		http.Error(w, "run not found", http.StatusNotFound)
		return
	}

	writeJSON(w, run)
}

// handleGetRanks streams a completed run's rank-vector JSON from object
// storage: GET /api/ranks/{uuid}.
func (s *Server) handleGetRanks(w http.ResponseWriter, r *http.Request) {
	runUUID := pathSuffix(r.URL.Path, "/api/ranks/")
	if runUUID == "" {
		http.Error(w, "run id is required", http.StatusBadRequest)
		return
	}

	run, err := s.runRepo.GetRunByUUID(r.Context(), runUUID)
	if err != nil || run.RanksFile == "" {
		http.Error(w, "ranks not available for this run", http.StatusNotFound)
		return
	}

	reader, err := s.storage.Download(r.Context(), run.RanksFile)
	if err != nil {
		http.Error(w, "failed to fetch rank vector", http.StatusInternalServerError)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("Failed to stream ranks for run %s: %v", runUUID, err)
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	json.NewEncoder(w).Encode(v)
}

// pathSuffix strips the given prefix from a request path, returning "" if
// the path does not have the prefix or nothing follows it.
func pathSuffix(path, prefix string) string {
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return ""
	}
	return path[len(prefix):]
}
