package monitoring

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"
)

var startTime = time.Now()

// HealthChecker reports the state of a running sweep
type HealthChecker struct {
	mu         sync.RWMutex
	runID      string
	next       int
	total      int
	lastTrial  time.Time
	lastStatus string
	finished   bool
	stallAfter time.Duration
}

type HealthStatus struct {
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
	RunID      string    `json:"run_id,omitempty"`
	NextIndex  int       `json:"next_index"`
	Total      int       `json:"total"`
	LastTrial  time.Time `json:"last_trial"`
	LastStatus string    `json:"last_status,omitempty"`
	Uptime     string    `json:"uptime"`
}

// NewHealthChecker creates a checker that reports "stalled" when no trial
// has finished within stallAfter
func NewHealthChecker(runID string, total int, stallAfter time.Duration) *HealthChecker {
	return &HealthChecker{
		runID:      runID,
		total:      total,
		lastTrial:  time.Now(),
		stallAfter: stallAfter,
	}
}

// TrialFinished records the position after a trial
func (h *HealthChecker) TrialFinished(next int, status string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.next = next
	h.lastStatus = status
	h.lastTrial = time.Now()
}

// Finish marks the sweep complete
func (h *HealthChecker) Finish() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = true
}

// Snapshot returns the current health status
func (h *HealthChecker) Snapshot() HealthStatus {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := "running"
	switch {
	case h.finished:
		status = "finished"
	case h.stallAfter > 0 && time.Since(h.lastTrial) > h.stallAfter:
		status = "stalled"
	}

	return HealthStatus{
		Status:     status,
		Timestamp:  time.Now(),
		RunID:      h.runID,
		NextIndex:  h.next,
		Total:      h.total,
		LastTrial:  h.lastTrial,
		LastStatus: h.lastStatus,
		Uptime:     time.Since(startTime).String(),
	}
}

func (h *HealthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	health := h.Snapshot()

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "stalled" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(health)
}

// Server exposes /metrics and /health while a sweep runs
type Server struct {
	srv *http.Server
}

// NewServer builds the monitoring server for addr
func NewServer(addr string, health *HealthChecker) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewMetricsHandler())
	mux.Handle("/health", health)
	return &Server{srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}}
}

// Start serves in a background goroutine; listen errors go to errc
func (s *Server) Start(errc chan<- error) {
	go func() {
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
