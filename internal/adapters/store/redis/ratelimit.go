package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"datapulse.api/internal/core/services"
)

const rateLimitPrefix = "datapulse:ratelimit:"

// KEYS are the window keys in evaluation order. ARGV[1] is the current time
// in milliseconds, ARGV[2] the member to record, followed by a limit and a
// window length in milliseconds per key.
var slidingWindow = redis.NewScript(`
local now = tonumber(ARGV[1])
for i, key in ipairs(KEYS) do
	local limit = tonumber(ARGV[1 + 2 * i])
	local length = tonumber(ARGV[2 + 2 * i])
	redis.call('ZREMRANGEBYSCORE', key, '-inf', now - length)
	if redis.call('ZCARD', key) >= limit then
		return 0
	end
	redis.call('ZADD', key, now, ARGV[2])
	redis.call('PEXPIRE', key, length)
end
return 1
`)

// RateLimitStore keeps one sorted set per window, scored by request time, so
// every server instance sees the same counts.
type RateLimitStore struct {
	client *redis.Client
	limits services.RateLimits
	now    func() time.Time
}

func NewRateLimitStore(client *redis.Client, limits services.RateLimits) *RateLimitStore {
	return &RateLimitStore{client: client, limits: limits, now: time.Now}
}

func (s *RateLimitStore) Allow(ctx context.Context, ip, endpoint string) (bool, error) {
	keys, args := s.scriptArgs(ip, endpoint)
	res, err := slidingWindow.Run(ctx, s.client, keys, args...).Int()
	if err != nil {
		return false, fmt.Errorf("rate limit script: %w", err)
	}
	return res == 1, nil
}

func (s *RateLimitStore) scriptArgs(ip, endpoint string) ([]string, []any) {
	windows := s.limits.Windows(ip, endpoint)
	keys := make([]string, 0, len(windows))
	args := []any{s.now().UnixMilli(), uuid.NewString()}
	for _, w := range windows {
		keys = append(keys, rateLimitPrefix+w.Key)
		args = append(args, w.Limit, w.Length.Milliseconds())
	}
	return keys, args
}
