// Package http exposes the budget service as a JSON API: record CRUD,
// month forecasts and the savings engine.
package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"housebudget/internal/cache"
	"housebudget/internal/savings"
	"housebudget/internal/services"
)

type Server struct {
	http.Server
	records   *services.RecordService
	forecasts *services.ForecastService
	engine    *savings.Engine

	rateLimiter *rateLimiter
	metrics     securityMetrics

	// Forecasts are expensive to assemble, so computed months are cached
	// and purged on any record write.
	forecastCache *cache.Cache[services.MonthForecast]

	stopCacheCleanup chan struct{}
	shutdownOnce     sync.Once
}

// NewServer configures routes and returns a ready-to-run server.
// writesPerMinute caps record writes per client IP; zero selects the default.
func NewServer(addr string, records *services.RecordService, forecasts *services.ForecastService, engine *savings.Engine, writesPerMinute int) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		records:          records,
		forecasts:        forecasts,
		engine:           engine,
		rateLimiter:      newRateLimiter(writesPerMinute),
		forecastCache:    cache.New[services.MonthForecast](24, 5*time.Minute),
		stopCacheCleanup: make(chan struct{}),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /incomes", s.with(s.handleListIncomes))
	mux.HandleFunc("POST /incomes", s.with(s.handleCreateIncome))
	mux.HandleFunc("PUT /incomes/{id}", s.with(s.handleUpdateIncome))
	mux.HandleFunc("DELETE /incomes/{id}", s.with(s.handleDeleteIncome))

	mux.HandleFunc("GET /bills", s.with(s.handleListBills))
	mux.HandleFunc("POST /bills", s.with(s.handleCreateBill))
	mux.HandleFunc("PUT /bills/{id}", s.with(s.handleUpdateBill))
	mux.HandleFunc("DELETE /bills/{id}", s.with(s.handleDeleteBill))

	mux.HandleFunc("GET /categories", s.with(s.handleListCategories))
	mux.HandleFunc("POST /categories", s.with(s.handleCreateCategory))
	mux.HandleFunc("POST /categories/import-bills", s.with(s.handleImportBillCategories))
	mux.HandleFunc("PUT /categories/{id}", s.with(s.handleUpdateCategory))
	mux.HandleFunc("DELETE /categories/{id}", s.with(s.handleDeleteCategory))

	mux.HandleFunc("GET /goals", s.with(s.handleListGoals))
	mux.HandleFunc("POST /goals", s.with(s.handleCreateGoal))
	mux.HandleFunc("PUT /goals/{id}", s.with(s.handleUpdateGoal))
	mux.HandleFunc("DELETE /goals/{id}", s.with(s.handleDeleteGoal))

	mux.HandleFunc("GET /debts", s.with(s.handleListDebts))
	mux.HandleFunc("POST /debts", s.with(s.handleCreateDebt))
	mux.HandleFunc("PUT /debts/{id}", s.with(s.handleUpdateDebt))
	mux.HandleFunc("DELETE /debts/{id}", s.with(s.handleDeleteDebt))

	mux.HandleFunc("GET /forecast", s.with(s.handleForecast))
	mux.HandleFunc("GET /forecast/income", s.with(s.handleIncomeForecast))
	mux.HandleFunc("GET /forecast/budget", s.with(s.handleBudgetForecast))
	mux.HandleFunc("GET /forecast/debts", s.with(s.handleDebtForecast))

	mux.HandleFunc("GET /savings/rate", s.with(s.handleGetSavingsRate))
	mux.HandleFunc("PUT /savings/rate", s.with(s.handleSetSavingsRate))
	mux.HandleFunc("GET /savings/allocations", s.with(s.handleGetAllocations))
	mux.HandleFunc("PUT /savings/allocations", s.with(s.handleSetAllocation))
	mux.HandleFunc("GET /savings/contributions", s.with(s.handleContributions))

	return s
}

// with adds security headers, rate limiting and request logging.
func (s *Server) with(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		clientIP := extractClientIP(r)

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		// Rate limit writes only; reads are cheap and cached
		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP, &s.metrics) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", clientIP)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.forecastCache.CleanExpired(); cleaned > 0 {
				slog.Debug("Forecast cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCacheCleanup:
			return
		}
	}
}

// invalidateForecasts drops every cached forecast. Any record write can
// move any month's numbers.
func (s *Server) invalidateForecasts() {
	s.forecastCache.Purge()
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.stopCacheCleanup != nil {
			close(s.stopCacheCleanup)
		}
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		slog.InfoContext(ctx, "HTTP server stopping",
			"rate_limited_requests", s.metrics.rateLimited())
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
