package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/middleware"

	"github.com/redis/go-redis/v9"
)

const postContentKeyPrefix = "post:%d:content"

// PostContentTTL bounds how long a post body may be served from cache.
const PostContentTTL = 30 * time.Minute

// PostContentKey is the cache key holding the body of a post.
func PostContentKey(postID uint) string {
	return fmt.Sprintf(postContentKeyPrefix, postID)
}

// Store is a JSON cache-aside helper over Redis. A Store with a nil client is
// valid and always misses.
type Store struct {
	client *redis.Client
}

// NewStore wraps client, which may be nil.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// GetJSON attempts to get key and unmarshal it into dest.
// Returns (true, nil) if found and unmarshaled, (false, nil) if not found.
func (s *Store) GetJSON(ctx context.Context, key string, dest any) (bool, error) {
	if s == nil || s.client == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON marshals v and stores it under key with ttl.
func (s *Store) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, b, ttl).Err()
}

// Aside serves key from cache, or calls fetch to populate dest and stores the
// result with ttl. Cache failures degrade to calling fetch; fetch errors are
// returned unchanged and nothing is cached.
func (s *Store) Aside(ctx context.Context, key string, dest any, ttl time.Duration, fetch func() error) error {
	found, err := s.GetJSON(ctx, key, dest)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "cache read failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	if found {
		return nil
	}

	if err := fetch(); err != nil {
		return err
	}

	if err := s.SetJSON(ctx, key, dest, ttl); err != nil {
		middleware.Logger.WarnContext(ctx, "cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
	return nil
}

// Invalidate drops key. Failures are logged and otherwise ignored.
func (s *Store) Invalidate(ctx context.Context, key string) {
	if s == nil || s.client == nil {
		return
	}
	if err := s.client.Del(ctx, key).Err(); err != nil {
		middleware.Logger.WarnContext(ctx, "cache invalidation failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// InvalidatePost drops every cached value derived from the post.
func (s *Store) InvalidatePost(ctx context.Context, postID uint) {
	s.Invalidate(ctx, PostContentKey(postID))
}
