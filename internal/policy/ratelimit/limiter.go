// Package ratelimit implements a token bucket rate limiter for per-client
// request control on the extraction API.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Config holds rate limiter configuration.
type Config struct {
	// RequestsPerMinute is the sustained rate allowed per client.
	RequestsPerMinute float64
	// Burst is the bucket size per client.
	Burst int
	// IdleTTL is how long an idle client entry survives before eviction.
	IdleTTL time.Duration
	// SweepInterval is how often idle entries are evicted.
	SweepInterval time.Duration
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter manages per-client token buckets. The client map is owned by the
// Limiter instance, not the process: construct one per server and Close it on
// shutdown to stop the eviction sweep.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client

	defaultRate  rate.Limit
	defaultBurst int
	idleTTL      time.Duration

	stop     chan struct{}
	stopOnce sync.Once
}

// New creates a Limiter and starts its eviction sweep.
func New(cfg Config) *Limiter {
	r := rate.Limit(cfg.RequestsPerMinute / 60.0)
	if cfg.RequestsPerMinute <= 0 {
		r = rate.Inf
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	sweep := cfg.SweepInterval
	if sweep <= 0 {
		sweep = 5 * time.Minute
	}

	l := &Limiter{
		clients:      make(map[string]*client),
		defaultRate:  r,
		defaultBurst: burst,
		idleTTL:      ttl,
		stop:         make(chan struct{}),
	}
	go l.sweepLoop(sweep)
	return l
}

// Allow reports whether the given client may proceed, consuming a token if so.
// It never blocks; callers turn a denial into HTTP 429.
func (l *Limiter) Allow(clientIP string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, exists := l.clients[clientIP]
	if !exists {
		c = &client{limiter: rate.NewLimiter(l.defaultRate, l.defaultBurst)}
		l.clients[clientIP] = c
	}
	c.lastSeen = time.Now()
	return c.limiter.Allow()
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Close stops the eviction sweep.
func (l *Limiter) Close() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case <-ticker.C:
			l.evictIdle(time.Now())
		}
	}
}

func (l *Limiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for ip, c := range l.clients {
		if now.Sub(c.lastSeen) > l.idleTTL {
			delete(l.clients, ip)
		}
	}
}
