// Package cache holds the optional Redis layer: client construction and the
// cache-aside store used for post content.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"inkwell/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 5 * time.Second

// errorCounter feeds failed commands into the redis_errors_total counter.
// redis.Nil is a cache miss, not a failure.
type errorCounter struct{}

func countFailure(label string, err error) {
	if err != nil && !errors.Is(err, redis.Nil) {
		middleware.RedisErrors.WithLabelValues(label).Inc()
	}
}

func (errorCounter) DialHook(next redis.DialHook) redis.DialHook { return next }

func (errorCounter) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		countFailure(cmd.Name(), err)
		return err
	}
}

func (errorCounter) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		countFailure("pipeline", err)
		return err
	}
}

func parseAddr(addr string) (*redis.Options, error) {
	if strings.Contains(addr, "://") {
		return redis.ParseURL(addr)
	}
	return &redis.Options{Addr: addr}, nil
}

// NewClient connects to addr (host:port or a redis:// URL). An empty addr,
// a malformed URL or a failed ping all yield nil, and the service then runs
// without caching or rate limiting.
func NewClient(addr string) *redis.Client {
	if addr == "" {
		middleware.Logger.Info("REDIS_URL not set, running without cache")
		return nil
	}

	opts, err := parseAddr(addr)
	if err != nil {
		middleware.Logger.Warn("invalid REDIS_URL, running without cache", slog.String("error", err.Error()))
		return nil
	}

	client := redis.NewClient(opts)
	client.AddHook(errorCounter{})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		middleware.Logger.Warn("redis unreachable, running without cache",
			slog.String("addr", opts.Addr), slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}

	middleware.Logger.Info("redis connected", slog.String("addr", opts.Addr))
	return client
}
