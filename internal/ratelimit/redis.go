package ratelimit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "user-service:ratelimit:"
	redisKeyTTL    = 60 * time.Second
)

// tokenBucketScript refills and consumes atomically. Returns {allowed, retry_after, remaining}.
var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local rate = tonumber(ARGV[1])
	local burst = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])
	local ttl = tonumber(ARGV[4])

	local data = redis.call('HMGET', key, 'tokens', 'last_update')
	local tokens = tonumber(data[1]) or burst
	local last_update = tonumber(data[2]) or now

	local elapsed = now - last_update
	tokens = math.min(burst, tokens + (elapsed * rate))

	local allowed = 0
	local retry_after = 0

	if tokens >= 1 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = math.ceil((1 - tokens) / rate)
	end

	redis.call('HMSET', key, 'tokens', tokens, 'last_update', now)
	redis.call('EXPIRE', key, ttl)

	return {allowed, retry_after, math.floor(tokens)}
`)

// RedisLimiter shares token buckets between replicas through Redis.
type RedisLimiter struct {
	client redis.Scripter
	rps    float64
	burst  int
	now    func() time.Time
}

// NewRedisLimiter builds a Redis-backed limiter.
func NewRedisLimiter(client redis.Scripter, rps float64, burst int) *RedisLimiter {
	return &RedisLimiter{client: client, rps: rps, burst: burst, now: time.Now}
}

// Allow implements Limiter. Redis failures fail open and are returned alongside
// an allowing decision so callers can log them.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	result, err := tokenBucketScript.Run(ctx, l.client,
		[]string{redisKey(key)},
		l.rps, l.burst, l.now().Unix(), int(redisKeyTTL.Seconds()),
	).Int64Slice()
	if err != nil {
		return Decision{Allowed: true, Remaining: int64(l.burst)}, err
	}

	return Decision{
		Allowed:    result[0] == 1,
		RetryAfter: time.Duration(result[1]) * time.Second,
		Remaining:  result[2],
	}, nil
}

// redisKey hashes the client key so raw IP addresses are not stored.
func redisKey(key string) string {
	hash := sha256.Sum256([]byte(key))
	return redisKeyPrefix + hex.EncodeToString(hash[:8])
}
