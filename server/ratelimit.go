package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitMiddleware applies a per-IP token bucket ahead of the mux.
type rateLimitMiddleware struct {
	handler http.Handler
	limit   rate.Limit
	burst   int

	mu       sync.Mutex
	limiters map[string]*clientLimiter
}

type clientLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

func newRateLimitMiddleware(handlerToWrap http.Handler, perMinute int) *rateLimitMiddleware {
	if perMinute < 1 {
		perMinute = 1
	}
	return &rateLimitMiddleware{
		handler:  handlerToWrap,
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    max(perMinute/2, 1),
		limiters: make(map[string]*clientLimiter),
	}
}

func (m *rateLimitMiddleware) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if !m.getLimiter(ip).Allow() {
		http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
		return
	}
	m.handler.ServeHTTP(w, r)
}

func (m *rateLimitMiddleware) getLimiter(key string) *rate.Limiter {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for k, client := range m.limiters {
		if now.After(client.expires) {
			delete(m.limiters, k)
		}
	}

	client, ok := m.limiters[key]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.limiters[key] = client
	}
	client.expires = now.Add(5 * time.Minute)
	return client.limiter
}
