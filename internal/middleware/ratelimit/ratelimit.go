// Package ratelimit throttles write requests per client IP.
package ratelimit

import (
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// Limiter counts requests per client in fixed windows.
type Limiter struct {
	mu           sync.Mutex
	clients      map[string]*clientInfo
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
	now          func() time.Time
	hits         atomic.Int64

	requestsPerWindow int
	window            time.Duration
	staleAfter        time.Duration
}

type clientInfo struct {
	windowStart time.Time
	lastRequest time.Time
	requests    int
}

type Config struct {
	RequestsPerWindow int
	Window            time.Duration
	// CleanupInterval of zero disables the background sweep.
	CleanupInterval time.Duration
	StaleAfter      time.Duration
}

func DefaultConfig() Config {
	return Config{
		RequestsPerWindow: 60,
		Window:            time.Minute,
		CleanupInterval:   5 * time.Minute,
		StaleAfter:        10 * time.Minute,
	}
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

func NewLimiter(config Config, opts ...Option) *Limiter {
	def := DefaultConfig()
	if config.RequestsPerWindow <= 0 {
		config.RequestsPerWindow = def.RequestsPerWindow
	}
	if config.Window <= 0 {
		config.Window = def.Window
	}
	if config.StaleAfter <= 0 {
		config.StaleAfter = def.StaleAfter
	}

	l := &Limiter{
		clients:           make(map[string]*clientInfo),
		stopCleanup:       make(chan struct{}),
		now:               time.Now,
		requestsPerWindow: config.RequestsPerWindow,
		window:            config.Window,
		staleAfter:        config.StaleAfter,
	}
	for _, opt := range opts {
		opt(l)
	}
	if config.CleanupInterval > 0 {
		go l.startCleanup(config.CleanupInterval)
	}
	return l
}

// Allow records a request from clientIP and reports whether it is within
// the limit.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	c, ok := l.clients[clientIP]
	if !ok || now.Sub(c.windowStart) >= l.window {
		l.clients[clientIP] = &clientInfo{windowStart: now, lastRequest: now, requests: 1}
		return true
	}

	c.requests++
	c.lastRequest = now
	if c.requests > l.requestsPerWindow {
		l.hits.Add(1)
		return false
	}
	return true
}

func (l *Limiter) startCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.CleanupStale()
		case <-l.stopCleanup:
			return
		}
	}
}

// CleanupStale forgets clients idle for longer than StaleAfter and returns
// how many were dropped.
func (l *Limiter) CleanupStale() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.staleAfter)
	removed := 0
	for ip, c := range l.clients {
		if c.lastRequest.Before(cutoff) {
			delete(l.clients, ip)
			removed++
		}
	}
	return removed
}

func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Hits is the number of rejected requests so far.
func (l *Limiter) Hits() int64 { return l.hits.Load() }

func (l *Limiter) Stop() {
	l.shutdownOnce.Do(func() { close(l.stopCleanup) })
}

// Middleware limits requests whose method is in methods; an empty list
// limits every request. onLimit writes the rejection response.
func (l *Limiter) Middleware(extractIP func(*http.Request) string, onLimit func(http.ResponseWriter, *http.Request), methods ...string) func(http.Handler) http.Handler {
	limited := make(map[string]bool, len(methods))
	for _, m := range methods {
		limited[m] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if (len(limited) == 0 || limited[r.Method]) && !l.Allow(extractIP(r)) {
				w.Header().Set("Retry-After", "60")
				if onLimit != nil {
					onLimit(w, r)
				} else {
					http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
				}
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
