package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ipWindow counts requests for one client within the current fixed
// window.
type ipWindow struct {
	count  int
	resets time.Time
}

// RateLimiter applies a fixed-window request cap per client IP.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*ipWindow
	limit   int
	window  time.Duration
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*ipWindow),
		limit:   limit,
		window:  window,
	}
	go rl.evictLoop()
	return rl
}

// Allow reports whether the client may make another request in the
// current window.
func (rl *RateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win := rl.clients[ip]
	if win == nil || now.After(win.resets) {
		rl.clients[ip] = &ipWindow{count: 1, resets: now.Add(rl.window)}
		return true
	}
	if win.count >= rl.limit {
		return false
	}
	win.count++
	return true
}

// evictLoop drops expired windows so idle clients do not accumulate.
func (rl *RateLimiter) evictLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for ip, win := range rl.clients {
			if now.After(win.resets) {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// RateLimitAPI caps the API surface at 120 requests per minute per IP.
func RateLimitAPI() func(http.HandlerFunc) http.HandlerFunc {
	limiter := NewRateLimiter(120, time.Minute)

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.Allow(ip) {
				slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
				http.Error(w, "Too many requests. Please try again later.", http.StatusTooManyRequests)
				return
			}
			next(w, r)
		}
	}
}

// clientIP resolves the originating address, honoring the usual proxy
// headers before falling back to the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.SplitN(xff, ",", 2)[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
