package backtest

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedTracker(total, resume int, elapsed time.Duration) *ProgressTracker {
	pt := NewProgressTracker(total, resume)
	start := pt.startTime
	pt.now = func() time.Time { return start.Add(elapsed) }
	return pt
}

// TestEstimateTimeRemaining tests the projection from the resume point
func TestEstimateTimeRemaining(t *testing.T) {
	pt := fixedTracker(100, 10, 20*time.Second)

	_, ok := pt.EstimateTimeRemaining(10)
	assert.False(t, ok)
	assert.Equal(t, "calculating...", pt.ETAString(10))

	// 20s over 10 trials, 80 to go
	eta, ok := pt.EstimateTimeRemaining(20)
	assert.True(t, ok)
	assert.Equal(t, 160*time.Second, eta)
	assert.Equal(t, "2.7min", pt.ETAString(20))
}

// TestGetProgress tests counters including skipped trials
func TestGetProgress(t *testing.T) {
	pt := fixedTracker(10, 4, time.Minute)
	pt.Increment()
	pt.Increment()

	done, remaining, pct, elapsed := pt.GetProgress()
	assert.Equal(t, 2, done)
	assert.Equal(t, 4, remaining)
	assert.Equal(t, 60.0, pct)
	assert.Equal(t, time.Minute, elapsed)
}
