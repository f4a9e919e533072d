package http

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	requestsPerMinute = 120
	staleAfter        = 10 * time.Minute
)

// rateLimiter counts requests per client IP over a one minute window.
type rateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientWindow
	stop    chan struct{}
	once    sync.Once
}

type clientWindow struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		clients: make(map[string]*clientWindow),
		stop:    make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (rl *rateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.dropStale()
		case <-rl.stop:
			return
		}
	}
}

func (rl *rateLimiter) dropStale() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleAfter)
	for ip, c := range rl.clients {
		if c.lastRequest.Before(cutoff) {
			delete(rl.clients, ip)
		}
	}
}

func (rl *rateLimiter) close() {
	rl.once.Do(func() { close(rl.stop) })
}

func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	c, ok := rl.clients[clientIP]
	if !ok || now.Sub(c.lastRequest) > time.Minute {
		rl.clients[clientIP] = &clientWindow{lastRequest: now, requests: 1}
		return true
	}

	c.requests++
	c.lastRequest = now
	return c.requests <= requestsPerMinute
}

// middleware rejects clients that exceed the per-minute budget with a 429.
func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"error":"rate limit exceeded"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the caller address, honouring X-Forwarded-For only when
// the direct peer is a loopback or private address.
func clientIP(r *http.Request) string {
	direct, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		direct = r.RemoteAddr
	}

	ip := net.ParseIP(direct)
	if ip == nil || !(ip.IsLoopback() || ip.IsPrivate()) {
		return direct
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if net.ParseIP(first) != nil {
			return first
		}
	}
	return direct
}
