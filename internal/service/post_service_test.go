package service

import (
	"context"
	"strings"
	"testing"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCacheStore(t *testing.T) (*miniredis.Miniredis, *cache.Store) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, cache.NewStore(client)
}

func TestPostService_CreatePost_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    CreatePostInput
		expected string
	}{
		{"missing title", CreatePostInput{UserID: 1, Content: "body"}, "Title is required"},
		{"missing content", CreatePostInput{UserID: 1, Title: "t"}, "Content is required"},
		{"title too long", CreatePostInput{UserID: 1, Title: strings.Repeat("x", 301), Content: "body"}, "Title too long (max 300 characters)"},
		{"content too long", CreatePostInput{UserID: 1, Title: "t", Content: strings.Repeat("x", 50001)}, "Content too long (max 50000 characters)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := NewPostService(noopPostRepo(), nil)
			_, err := svc.CreatePost(context.Background(), tt.input)
			assertValidationError(t, err)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestPostService_CreatePost_Success(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.createFn = func(_ context.Context, p *models.Post) error {
		p.ID = 9
		return nil
	}
	svc := NewPostService(repo, nil)

	post, err := svc.CreatePost(context.Background(), CreatePostInput{UserID: 3, Title: "Hello", Content: "World"})
	require.NoError(t, err)
	assert.Equal(t, uint(9), post.ID)
	assert.Equal(t, uint(3), post.UserID)
}

func TestPostService_ListFeed(t *testing.T) {
	t.Parallel()

	author := uint(4)

	t.Run("profile without author issues no query", func(t *testing.T) {
		t.Parallel()
		repo := noopPostRepo()
		repo.listSummariesFn = func(_ context.Context, _ repository.FeedQuery) ([]models.PostSummary, error) {
			t.Fatal("no query expected")
			return nil, nil
		}
		svc := NewPostService(repo, nil)

		_, err := svc.ListFeed(context.Background(), ListFeedInput{Limit: 5, IsProfilePage: true})
		assert.ErrorIs(t, err, ErrMissingAuthorFilter)
		assertValidationError(t, err)
	})

	t.Run("profile passes author filter", func(t *testing.T) {
		t.Parallel()
		var got repository.FeedQuery
		repo := noopPostRepo()
		repo.listSummariesFn = func(_ context.Context, q repository.FeedQuery) ([]models.PostSummary, error) {
			got = q
			return []models.PostSummary{}, nil
		}
		svc := NewPostService(repo, nil)

		_, err := svc.ListFeed(context.Background(), ListFeedInput{Limit: 5, Offset: 10, UserID: &author, IsProfilePage: true})
		require.NoError(t, err)
		require.NotNil(t, got.AuthorID)
		assert.Equal(t, author, *got.AuthorID)
		assert.Equal(t, 5, got.Limit)
		assert.Equal(t, 10, got.Offset)
	})

	t.Run("home feed ignores user id", func(t *testing.T) {
		t.Parallel()
		var got repository.FeedQuery
		repo := noopPostRepo()
		repo.listSummariesFn = func(_ context.Context, q repository.FeedQuery) ([]models.PostSummary, error) {
			got = q
			return []models.PostSummary{}, nil
		}
		svc := NewPostService(repo, nil)

		_, err := svc.ListFeed(context.Background(), ListFeedInput{Limit: 5, UserID: &author})
		require.NoError(t, err)
		assert.Nil(t, got.AuthorID)
	})
}

func TestPostService_GetContent_CacheAside(t *testing.T) {
	mr, store := newCacheStore(t)

	reads := 0
	content := "first body"
	repo := noopPostRepo()
	repo.getContentFn = func(_ context.Context, id uint) (string, error) {
		reads++
		if id != 1 {
			return "", models.ErrPostNotFound
		}
		return content, nil
	}
	svc := NewPostService(repo, store)
	ctx := context.Background()

	got, err := svc.GetContent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "first body", got)

	got, err = svc.GetContent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "first body", got)
	assert.Equal(t, 1, reads)

	content = "second body"
	require.NoError(t, svc.UpdatePost(ctx, UpdatePostInput{PostID: 1, UserID: 1, Title: "t", Content: content}))
	assert.False(t, mr.Exists(cache.PostContentKey(1)))

	got, err = svc.GetContent(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "second body", got)
	assert.Equal(t, 2, reads)

	require.NoError(t, svc.DeletePost(ctx, 1, 1))
	assert.False(t, mr.Exists(cache.PostContentKey(1)))

	_, err = svc.GetContent(ctx, 2)
	assert.ErrorIs(t, err, models.ErrPostNotFound)
	assert.False(t, mr.Exists(cache.PostContentKey(2)))
}

func TestPostService_UpdateAndDelete_NotOwned(t *testing.T) {
	t.Parallel()

	repo := noopPostRepo()
	repo.updateFn = func(_ context.Context, _, _ uint, _, _ string) error { return models.ErrPostNotFound }
	repo.deleteFn = func(_ context.Context, _, _ uint) error { return models.ErrPostNotFound }
	svc := NewPostService(repo, nil)
	ctx := context.Background()

	err := svc.UpdatePost(ctx, UpdatePostInput{PostID: 1, UserID: 2, Title: "t", Content: "c"})
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	err = svc.DeletePost(ctx, 1, 2)
	assert.ErrorIs(t, err, models.ErrPostNotFound)

	err = svc.UpdatePost(ctx, UpdatePostInput{PostID: 1, UserID: 2})
	assertValidationError(t, err)
}
