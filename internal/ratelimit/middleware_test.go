package ratelimit

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "github.com/spec-kit/user-service/pkg/util/errorutil"
)

type stubLimiter struct {
	dec Decision
	err error
}

func (s stubLimiter) Allow(context.Context, string) (Decision, error) {
	return s.dec, s.err
}

func newApp(lim Limiter) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var de *apperrors.DomainError
			if errors.As(err, &de) {
				return c.Status(de.HTTPStatus).SendString(de.Message)
			}
			return fiber.DefaultErrorHandler(c, err)
		},
	})
	app.Use(Middleware(lim, zap.NewNop()))
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestMiddleware_Allows(t *testing.T) {
	app := newApp(stubLimiter{dec: Decision{Allowed: true, Remaining: 4}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "4", resp.Header.Get("X-RateLimit-Remaining"))
}

func TestMiddleware_Rejects(t *testing.T) {
	app := newApp(stubLimiter{dec: Decision{Allowed: false, RetryAfter: 1500 * time.Millisecond}})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "2", resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestMiddleware_FailsOpen(t *testing.T) {
	app := newApp(stubLimiter{dec: Decision{Allowed: true}, err: errors.New("redis down")})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMiddleware_WithMemoryLimiter(t *testing.T) {
	app := newApp(NewMemoryLimiter(0.001, 1))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
}
