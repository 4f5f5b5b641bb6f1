// Package http serves the dashboard JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"director/internal/dashboard"
	"director/internal/log"
	"director/internal/middleware/ratelimit"
	"director/internal/middleware/security"
	"director/internal/middleware/trace"
	"director/internal/services"
)

// Deps are the collaborators behind the API.
type Deps struct {
	Dashboard    *dashboard.Service
	Transactions *services.TransactionService
	Objectives   *services.ObjectiveService
	// Ready reports backend health for /readyz. Nil means always ready.
	Ready func(context.Context) error
}

type Server struct {
	http.Server
	deps     Deps
	now      func() time.Time
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector

	shutdownOnce sync.Once
}

type Option func(*Server)

// WithClock replaces time.Now, used for default transaction dates.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.now = now }
}

// WithRateLimit overrides the per-IP write limit.
func WithRateLimit(cfg ratelimit.Config) Option {
	return func(s *Server) {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		s.limiter = ratelimit.NewLimiter(cfg)
	}
}

// readTimeout bounds store reads made while serving a request.
const readTimeout = 7 * time.Second

const maxBodyBytes = 1 << 20

// NewServer configures routes and middleware, returning a ready-to-run
// server.
func NewServer(addr string, deps Deps, opts ...Option) *Server {
	s := &Server{
		deps:     deps,
		now:      time.Now,
		logger:   log.Default().WithComponent(log.ComponentHTTP),
		limiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		detector: security.NewDetector(),
	}
	for _, opt := range opts {
		opt(s)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/dashboard", s.handleDashboard)
	mux.HandleFunc("GET /api/series", s.handleSeries)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/objectives", s.handleListObjectives)
	mux.HandleFunc("POST /api/objectives", s.handleCreateObjective)
	mux.HandleFunc("PUT /api/objectives/{id}", s.handleSaveObjective)
	mux.HandleFunc("DELETE /api/objectives/{id}", s.handleDeleteObjective)
	mux.HandleFunc("PATCH /api/objectives/{id}/key-results/{krID}", s.handleUpdateKeyResult)

	mux.HandleFunc("GET /api/export", s.handleExport)
	mux.HandleFunc("POST /api/reset", s.handleReset)

	tracer := trace.NewMiddleware(log.Default(), s.detector.ClientIP)
	limit := s.limiter.Middleware(s.detector.ClientIP, s.onRateLimited,
		http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete)

	var h http.Handler = mux
	h = limit(h)
	h = s.flagSuspicious(h)
	h = security.Headers(security.DefaultHeadersConfig())(h)
	h = tracer.Handler(h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Shutdown stops background goroutines and drains the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func (s *Server) flagSuspicious(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.detector.IsSuspicious(r) {
			log.FromContext(r.Context()).WithComponent(log.ComponentSecurity).WarnContext(r.Context(),
				"Suspicious request",
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldClientIP, s.detector.ClientIP(r),
				log.FieldUserAgent, r.Header.Get("User-Agent"))
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	log.FromContext(r.Context()).WithComponent(log.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		log.FieldClientIP, s.detector.ClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded, try again later"})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Ready(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
