package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"datapulse.api/internal/core/circuitbreaker"
	"datapulse.api/internal/core/logger"
	"datapulse.api/internal/core/ports"
)

// RateLimits bounds requests per client IP.
type RateLimits struct {
	GlobalDaily    int
	EndpointDaily  int
	EndpointMinute int
}

// Window is one sliding window checked by a limiter.
type Window struct {
	Key    string
	Limit  int
	Length time.Duration
}

// Windows returns the windows checked for a request, in evaluation order.
// Each window records the request before the next one is checked, so a
// request rejected by a later window still counts against earlier ones.
func (l RateLimits) Windows(ip, endpoint string) []Window {
	return []Window{
		{Key: ip, Limit: l.GlobalDaily, Length: 24 * time.Hour},
		{Key: fmt.Sprintf("%s:%s:day", ip, endpoint), Limit: l.EndpointDaily, Length: 24 * time.Hour},
		{Key: fmt.Sprintf("%s:%s:min", ip, endpoint), Limit: l.EndpointMinute, Length: time.Minute},
	}
}

const cleanupInterval = 5 * time.Minute

// MemoryRateLimiter keeps request timestamps per window key in process memory.
type MemoryRateLimiter struct {
	mu      sync.Mutex
	limits  RateLimits
	entries map[string][]time.Time
	now     func() time.Time
}

func NewMemoryRateLimiter(limits RateLimits) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limits:  limits,
		entries: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryRateLimiter) Allow(_ context.Context, ip, endpoint string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for _, w := range l.limits.Windows(ip, endpoint) {
		stamps := prune(l.entries[w.Key], now, w.Length)
		if len(stamps) >= w.Limit {
			l.entries[w.Key] = stamps
			return false, nil
		}
		l.entries[w.Key] = append(stamps, now)
	}
	return true, nil
}

// Cleanup drops timestamps older than a day and forgets empty keys.
func (l *MemoryRateLimiter) Cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for key, stamps := range l.entries {
		stamps = prune(stamps, now, 24*time.Hour)
		if len(stamps) == 0 {
			delete(l.entries, key)
			continue
		}
		l.entries[key] = stamps
	}
}

// Len reports the number of tracked keys.
func (l *MemoryRateLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// RunCleanup calls Cleanup every five minutes until ctx is done.
func (l *MemoryRateLimiter) RunCleanup(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Cleanup()
		}
	}
}

// prune drops timestamps outside the window. Stamps are appended in order,
// so everything before the first fresh one is stale.
func prune(stamps []time.Time, now time.Time, window time.Duration) []time.Time {
	i := 0
	for i < len(stamps) && now.Sub(stamps[i]) >= window {
		i++
	}
	return stamps[i:]
}

// GuardedRateLimiter consults a shared limiter through a circuit breaker and
// falls back to a local one while the shared store is failing.
type GuardedRateLimiter struct {
	primary  ports.RateLimiter
	fallback ports.RateLimiter
	cb       *circuitbreaker.CircuitBreaker
}

func NewGuardedRateLimiter(primary, fallback ports.RateLimiter, cb *circuitbreaker.CircuitBreaker) *GuardedRateLimiter {
	if cb == nil {
		cb = circuitbreaker.New("rate-limiter")
	}
	return &GuardedRateLimiter{primary: primary, fallback: fallback, cb: cb}
}

func (g *GuardedRateLimiter) Allow(ctx context.Context, ip, endpoint string) (bool, error) {
	var allowed bool
	err := g.cb.ExecuteWithFallback(ctx,
		func() error {
			ok, err := g.primary.Allow(ctx, ip, endpoint)
			allowed = ok
			return err
		},
		func() error {
			logger.Component("ratelimit").Debug("Using local rate limiter", "ip", ip, "endpoint", endpoint)
			ok, err := g.fallback.Allow(ctx, ip, endpoint)
			allowed = ok
			return err
		},
	)
	return allowed, err
}
