package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	// defaultWriteLimit is the fallback per-client write budget per window.
	defaultWriteLimit = 60

	rateWindow    = time.Minute
	staleWindow   = 10 * time.Minute
	cleanupPeriod = 5 * time.Minute
)

// rateLimiter throttles record writes per client IP over a fixed window.
// Forecast reads are served from cache and never throttled.
type rateLimiter struct {
	mu           sync.Mutex
	limit        int
	windows      map[string]*writeWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// writeWindow counts a client's writes since the window opened.
type writeWindow struct {
	opened time.Time
	writes int
}

func newRateLimiter(writesPerMinute int) *rateLimiter {
	if writesPerMinute <= 0 {
		writesPerMinute = defaultWriteLimit
	}
	rl := &rateLimiter{
		limit:       writesPerMinute,
		windows:     make(map[string]*writeWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(cleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStaleWindows()
		case <-rl.stopCleanup:
			return
		}
	}
}

// dropStaleWindows forgets clients that have not written recently.
func (rl *rateLimiter) dropStaleWindows() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleWindow)
	for ip, win := range rl.windows {
		if win.opened.Before(cutoff) {
			delete(rl.windows, ip)
		}
	}
}

// stop shuts down the cleanup goroutine.
func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		if rl.stopCleanup != nil {
			close(rl.stopCleanup)
		}
	})
}

// allow reports whether the client may perform another write. A rejected
// write is counted in metrics when provided.
func (rl *rateLimiter) allow(clientIP string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win, ok := rl.windows[clientIP]
	if !ok || now.Sub(win.opened) > rateWindow {
		rl.windows[clientIP] = &writeWindow{opened: now, writes: 1}
		return true
	}

	win.writes++
	if win.writes > rl.limit {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
