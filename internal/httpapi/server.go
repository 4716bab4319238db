// Package httpapi exposes a small read-only API over the stored results
// plus a trigger endpoint for an on-demand run.
package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"empleo-engine/internal/pipeline"
	"empleo-engine/internal/store"
)

// Server holds the DB handle and a run callback wired from cmd, so this
// package does not own config or the pipeline's dependencies.
type Server struct {
	db  *store.DB
	run func() (*pipeline.Result, error)

	running    atomic.Bool
	mu         sync.Mutex
	lastResult *pipeline.Result
}

func NewServer(db *store.DB, run func() (*pipeline.Result, error)) *Server {
	return &Server{db: db, run: run}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Get("/jobs", s.handleJobs)
	r.Get("/sources", s.handleSources)
	r.Get("/report", s.handleReport)
	r.Post("/run", s.handleRun)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "time": time.Now().Format(time.RFC3339)})
}

func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := store.ListJobs(r.Context(), s.db.Pool, 200)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleSources(w http.ResponseWriter, r *http.Request) {
	counts, err := store.CountBySource(r.Context(), s.db.Pool)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	res := s.lastResult
	s.mu.Unlock()
	if res == nil {
		http.Error(w, "no run yet", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRun kicks off a pipeline pass in the background; 409 while one is
// already going.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if !s.running.CompareAndSwap(false, true) {
		http.Error(w, "run already in progress", http.StatusConflict)
		return
	}
	go func() {
		defer s.running.Store(false)
		res, err := s.run()
		if err != nil {
			log.Printf("[api] run failed: %v", err)
			return
		}
		s.mu.Lock()
		s.lastResult = res
		s.mu.Unlock()
	}()
	writeJSON(w, http.StatusAccepted, map[string]any{"started": true})
}

// SetLastResult records the result of runs triggered outside the API
// (startup run, interval scheduler) so /report reflects them too.
func (s *Server) SetLastResult(res *pipeline.Result) {
	s.mu.Lock()
	s.lastResult = res
	s.mu.Unlock()
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
