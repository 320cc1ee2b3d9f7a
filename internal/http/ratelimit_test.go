package http

import (
	"testing"
	"time"
)

func TestRateLimiterWindow(t *testing.T) {
	rl := newRateLimiter(3)
	defer rl.stop()

	var metrics securityMetrics
	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1", &metrics) {
			t.Fatalf("write %d should be allowed", i+1)
		}
	}
	if rl.allow("10.0.0.1", &metrics) {
		t.Fatal("write over the limit should be rejected")
	}
	if got := metrics.rateLimited(); got != 1 {
		t.Errorf("rate limited count = %d, want 1", got)
	}

	// Other clients keep their own budget
	if !rl.allow("10.0.0.2", &metrics) {
		t.Error("a different client should not share the exhausted window")
	}

	// An expired window resets the budget
	rl.mu.Lock()
	rl.windows["10.0.0.1"].opened = time.Now().Add(-2 * rateWindow)
	rl.mu.Unlock()
	if !rl.allow("10.0.0.1", &metrics) {
		t.Error("write after the window expired should be allowed")
	}
}

func TestRateLimiterDefaultLimit(t *testing.T) {
	rl := newRateLimiter(0)
	defer rl.stop()

	if rl.limit != defaultWriteLimit {
		t.Errorf("limit = %d, want %d", rl.limit, defaultWriteLimit)
	}
}

func TestRateLimiterDropsStaleWindows(t *testing.T) {
	rl := newRateLimiter(5)
	defer rl.stop()

	rl.allow("10.0.0.1", nil)
	rl.allow("10.0.0.2", nil)

	rl.mu.Lock()
	rl.windows["10.0.0.1"].opened = time.Now().Add(-2 * staleWindow)
	rl.mu.Unlock()

	rl.dropStaleWindows()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.windows["10.0.0.1"]; ok {
		t.Error("stale window should have been dropped")
	}
	if _, ok := rl.windows["10.0.0.2"]; !ok {
		t.Error("recent window should have been kept")
	}
}
