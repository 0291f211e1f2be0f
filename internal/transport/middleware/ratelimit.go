package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per client address. It is meant for
// abuse-prone endpoints such as OTP delivery.
type RateLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientLimiter
	rate     rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientLimiter struct {
	limiter *rate.Limiter
	seenAt  time.Time
}

func NewRateLimiter(r float64, burst int) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimiter),
		rate:     rate.Limit(r),
		burst:    burst,
		lastSeen: 10 * time.Minute,
	}
	go rl.cleanup()
	return rl
}

func (rl *RateLimiter) allow(clientKey string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cl, ok := rl.clients[clientKey]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.clients[clientKey] = cl
	}
	cl.seenAt = time.Now()
	return cl.limiter.Allow()
}

// cleanup evicts idle clients so the map does not grow unbounded.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for key, cl := range rl.clients {
			if time.Since(cl.seenAt) > rl.lastSeen {
				delete(rl.clients, key)
			}
		}
		rl.mu.Unlock()
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		host, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			host = r.RemoteAddr
		}

		if !rl.allow(host) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{
					"message": "Too many requests, please try again later",
					"status":  http.StatusTooManyRequests,
				},
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
