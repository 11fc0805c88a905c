package transport

import (
	"net/netip"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// RateLimiter hands out a token bucket per client address. Buckets for the
// least recently seen clients are evicted once maxClients is reached.
type RateLimiter struct {
	mu      sync.Mutex
	clients *lru.Cache[netip.Addr, *rate.Limiter]
	limit   rate.Limit
	burst   int
}

// NewRateLimiter returns nil when qps is not positive, which disables
// limiting.
func NewRateLimiter(qps float64, burst, maxClients int) (*RateLimiter, error) {
	if qps <= 0 {
		return nil, nil
	}
	if burst < 1 {
		burst = 1
	}
	clients, err := lru.New[netip.Addr, *rate.Limiter](maxClients)
	if err != nil {
		return nil, err
	}
	return &RateLimiter{
		clients: clients,
		limit:   rate.Limit(qps),
		burst:   burst,
	}, nil
}

// Allow reports whether a packet from addr may be processed now. A nil
// limiter allows everything.
func (l *RateLimiter) Allow(addr netip.Addr) bool {
	if l == nil {
		return true
	}
	addr = addr.Unmap()

	l.mu.Lock()
	limiter, ok := l.clients.Get(addr)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.clients.Add(addr, limiter)
	}
	l.mu.Unlock()

	return limiter.Allow()
}

// Clients returns the number of tracked client addresses.
func (l *RateLimiter) Clients() int {
	if l == nil {
		return 0
	}
	return l.clients.Len()
}
