package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestCheckRateLimit_Bypass(t *testing.T) {
	for _, env := range []string{"test", "development", ""} {
		t.Run("env="+env, func(t *testing.T) {
			t.Setenv("APP_ENV", env)
			allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
			assert.NoError(t, err)
			assert.True(t, allowed)
		})
	}
}

func TestCheckRateLimit_NilRedis(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	allowed, err := CheckRateLimit(context.Background(), nil, "login", "ip:1", 1, time.Minute)
	assert.Error(t, err)
	assert.False(t, allowed)
}

func TestCheckRateLimit_Window(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	mr, rdb := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, allowed, "request %d", i+1)
	}

	allowed, err := CheckRateLimit(ctx, rdb, "login", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, allowed)

	// Another caller has its own budget.
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:2", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)

	assert.Equal(t, time.Minute, mr.TTL("rl:login:ip:1"))

	mr.FastForward(time.Minute + time.Second)
	allowed, err = CheckRateLimit(ctx, rdb, "login", "ip:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	_, rdb := newTestRedis(t)

	app := fiber.New()
	app.Post("/login", RateLimit(rdb, 2, time.Minute, "login"), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}
	assert.Equal(t, []int{200, 200, 429}, codes)
}

func TestRateLimitMiddleware_FailurePolicy(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	tests := []struct {
		name     string
		policy   FailPolicy
		expected int
	}{
		{"Fail open", FailOpen, fiber.StatusOK},
		{"Fail closed", FailClosed, fiber.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Post("/register", RateLimitWithPolicy(nil, 1, time.Minute, tt.policy), func(c *fiber.Ctx) error {
				return c.SendStatus(fiber.StatusOK)
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/register", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, resp.StatusCode)
		})
	}
}
