package ratelimit

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/user-service/pkg/util/errorutil"
)

// Middleware rejects callers, keyed by client IP, once their bucket is empty.
func Middleware(limiter Limiter, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dec, err := limiter.Allow(c.UserContext(), c.IP())
		if err != nil {
			logger.Warn("rate limiter unavailable", zap.Error(err))
		}

		c.Set("X-RateLimit-Remaining", strconv.FormatInt(dec.Remaining, 10))
		if !dec.Allowed {
			seconds := int(math.Ceil(dec.RetryAfter.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(seconds))
			return apperrors.NewTooManyRequests(seconds)
		}
		return c.Next()
	}
}
