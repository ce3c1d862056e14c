package backtest

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker tracks sweep progress from the resume point onward
type ProgressTracker struct {
	total     int
	resume    int
	completed int
	startTime time.Time
	now       func() time.Time
	mu        sync.RWMutex
}

// NewProgressTracker creates a tracker for total trials starting at resume
func NewProgressTracker(total, resume int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		resume:    resume,
		startTime: time.Now(),
		now:       time.Now,
	}
}

// Increment records one attempted trial
func (pt *ProgressTracker) Increment() {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	pt.completed++
}

// GetProgress returns attempted, remaining, percentage and elapsed time
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mu.RLock()
	defer pt.mu.RUnlock()

	remaining := pt.total - pt.resume - pt.completed
	if remaining < 0 {
		remaining = 0
	}
	percentage := 0.0
	if pt.total > 0 {
		percentage = float64(pt.resume+pt.completed) / float64(pt.total) * 100
	}
	return pt.completed, remaining, percentage, pt.now().Sub(pt.startTime)
}

// Elapsed returns the time since the tracker started
func (pt *ProgressTracker) Elapsed() time.Duration {
	return pt.now().Sub(pt.startTime)
}

// EstimateTimeRemaining projects the time left before trial index i runs:
// elapsed / (i - resume) × (total - i). It reports false for the first
// trial after the resume point, when there is nothing to project from.
func (pt *ProgressTracker) EstimateTimeRemaining(i int) (time.Duration, bool) {
	done := i - pt.resume
	if done <= 0 {
		return 0, false
	}
	elapsed := pt.Elapsed()
	per := float64(elapsed) / float64(done)
	return time.Duration(per * float64(pt.total-i)), true
}

// ETAString formats the projection for the progress line
func (pt *ProgressTracker) ETAString(i int) string {
	eta, ok := pt.EstimateTimeRemaining(i)
	if !ok {
		return "calculating..."
	}
	return fmt.Sprintf("%.1fmin", eta.Minutes())
}
