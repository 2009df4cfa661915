// Package ratelimit throttles callers of the user routes with a token bucket
// per client key, held in process memory or in Redis.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of one token request.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter takes one token for key.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}
