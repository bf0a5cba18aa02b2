// Package http exposes the application over a JSON API. Handlers stay
// thin: decode, delegate to the app facade, map domain errors onto
// status codes.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/hikmagitz/hkmcash-sub000/internal/app"
	"github.com/hikmagitz/hkmcash-sub000/internal/cache"
	"github.com/hikmagitz/hkmcash-sub000/internal/core"
	applog "github.com/hikmagitz/hkmcash-sub000/internal/log"
)

const (
	rollupCacheSize = 100
	rollupCacheTTL  = 5 * time.Minute
)

type Server struct {
	http.Server
	app         *app.App
	logger      *applog.Logger
	rateLimiter *rateLimiter

	// Derived rollups are cheap but hit on every dashboard refresh;
	// cached per owner and flushed on any mutation.
	rollupCache *cache.LRU[[]core.KeyTotal]

	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(addr string, a *app.App, logger *applog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		app:         a,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(),
		rollupCache: cache.NewLRU[[]core.KeyTotal](rollupCacheSize, rollupCacheTTL),
		stopCleanup: make(chan struct{}),
	}
	s.Server = http.Server{
		Addr:    addr,
		Handler: applog.Middleware(logger)(s.withRequestGuards(mux)),
	}

	go s.startCacheCleanup()

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /status", s.handleStatus)
	mux.HandleFunc("POST /session/signin", s.handleSignIn)
	mux.HandleFunc("POST /session/demo", s.handleEnterDemo)
	mux.HandleFunc("POST /session/signout", s.handleSignOut)

	mux.HandleFunc("GET /transactions", s.handleListTransactions)
	mux.HandleFunc("POST /transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /summary", s.handleSummary)
	mux.HandleFunc("GET /rollups/categories", s.handleCategoryRollup)
	mux.HandleFunc("GET /rollups/months", s.handleMonthlyRollup)

	mux.HandleFunc("GET /categories", s.handleListCategories)
	mux.HandleFunc("POST /categories", s.handleCreateCategory)
	mux.HandleFunc("PUT /categories/{id}", s.handleRenameCategory)
	mux.HandleFunc("DELETE /categories/{id}", s.handleDeleteCategory)

	mux.HandleFunc("GET /clients", s.handleListClients)
	mux.HandleFunc("POST /clients", s.handleCreateClient)
	mux.HandleFunc("DELETE /clients/{id}", s.handleDeleteClient)

	return s
}

// withRequestGuards applies security headers, a request ID, and rate
// limiting on mutations.
func (s *Server) withRequestGuards(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		ctx := context.WithValue(r.Context(), requestIDKey, generateRequestID())
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(ip) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", ip,
				applog.FieldMethod, r.Method,
				applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate_limited", "too many requests")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) startCacheCleanup() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if cleaned := s.rollupCache.CleanExpired(); cleaned > 0 {
				s.logger.Debug("Cache cleanup completed", "entries_removed", cleaned)
			}
		case <-s.stopCleanup:
			return
		}
	}
}

// Shutdown stops the cleanup goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		close(s.stopCleanup)
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
