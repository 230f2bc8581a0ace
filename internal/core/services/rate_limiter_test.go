package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"datapulse.api/internal/core/circuitbreaker"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newLimiter(limits RateLimits) (*MemoryRateLimiter, *fakeClock) {
	clock := &fakeClock{t: fixedNow}
	l := NewMemoryRateLimiter(limits)
	l.now = clock.now
	return l, clock
}

func allowN(t *testing.T, l *MemoryRateLimiter, n int, ip, endpoint string) {
	t.Helper()
	for i := 0; i < n; i++ {
		ok, err := l.Allow(context.Background(), ip, endpoint)
		require.NoError(t, err)
		require.True(t, ok, "request %d should pass", i+1)
	}
}

func TestMemoryRateLimiterMinuteWindow(t *testing.T) {
	l, clock := newLimiter(RateLimits{GlobalDaily: 50, EndpointDaily: 20, EndpointMinute: 5})

	allowN(t, l, 5, "1.2.3.4", "weather")
	ok, _ := l.Allow(context.Background(), "1.2.3.4", "weather")
	assert.False(t, ok, "sixth request within a minute")

	ok, _ = l.Allow(context.Background(), "1.2.3.4", "crypto")
	assert.True(t, ok, "other endpoints keep their own minute window")
	ok, _ = l.Allow(context.Background(), "5.6.7.8", "weather")
	assert.True(t, ok, "other clients are unaffected")

	clock.advance(time.Minute)
	ok, _ = l.Allow(context.Background(), "1.2.3.4", "weather")
	assert.True(t, ok, "minute window slid")
}

func TestMemoryRateLimiterEndpointDaily(t *testing.T) {
	l, clock := newLimiter(RateLimits{GlobalDaily: 50, EndpointDaily: 20, EndpointMinute: 5})

	for i := 0; i < 4; i++ {
		allowN(t, l, 5, "ip", "news")
		clock.advance(time.Minute)
	}
	ok, _ := l.Allow(context.Background(), "ip", "news")
	assert.False(t, ok)

	clock.advance(24 * time.Hour)
	ok, _ = l.Allow(context.Background(), "ip", "news")
	assert.True(t, ok)
}

func TestMemoryRateLimiterRejectionStillCountsGlobally(t *testing.T) {
	l, _ := newLimiter(RateLimits{GlobalDaily: 3, EndpointDaily: 20, EndpointMinute: 1})

	allowN(t, l, 1, "ip", "weather")
	ok, _ := l.Allow(context.Background(), "ip", "weather")
	assert.False(t, ok, "minute window rejects")

	allowN(t, l, 1, "ip", "crypto")
	ok, _ = l.Allow(context.Background(), "ip", "news")
	assert.False(t, ok, "rejected weather request consumed global quota")
}

func TestMemoryRateLimiterCleanup(t *testing.T) {
	l, clock := newLimiter(RateLimits{GlobalDaily: 50, EndpointDaily: 20, EndpointMinute: 5})

	allowN(t, l, 1, "a", "weather")
	clock.advance(23 * time.Hour)
	allowN(t, l, 1, "b", "weather")
	assert.Equal(t, 6, l.Len())

	clock.advance(2 * time.Hour)
	l.Cleanup()
	assert.Equal(t, 3, l.Len(), "only client b is still tracked")
}

type mockLimiter struct {
	mock.Mock
}

func (m *mockLimiter) Allow(ctx context.Context, ip, endpoint string) (bool, error) {
	args := m.Called(ctx, ip, endpoint)
	return args.Bool(0), args.Error(1)
}

func TestGuardedRateLimiterFallsBack(t *testing.T) {
	primary := new(mockLimiter)
	fallback := new(mockLimiter)
	ctx := context.Background()

	primary.On("Allow", ctx, "ip", "news").Return(false, errors.New("connection refused"))
	fallback.On("Allow", ctx, "ip", "news").Return(true, nil)

	g := NewGuardedRateLimiter(primary, fallback, circuitbreaker.New("test"))
	ok, err := g.Allow(ctx, "ip", "news")
	require.NoError(t, err)
	assert.True(t, ok)

	primary.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestGuardedRateLimiterUsesPrimary(t *testing.T) {
	primary := new(mockLimiter)
	fallback := new(mockLimiter)
	ctx := context.Background()

	primary.On("Allow", ctx, "ip", "news").Return(false, nil)

	g := NewGuardedRateLimiter(primary, fallback, nil)
	ok, err := g.Allow(ctx, "ip", "news")
	require.NoError(t, err)
	assert.False(t, ok)
	fallback.AssertNotCalled(t, "Allow", mock.Anything, mock.Anything, mock.Anything)
}
