package service

import (
	"context"

	"inkwell/internal/cache"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// ErrMissingAuthorFilter rejects a profile feed request that names no author.
var ErrMissingAuthorFilter = models.NewValidationError("userId is required for profile feeds")

type PostService struct {
	postRepo repository.PostRepository
	cache    *cache.Store
}

type CreatePostInput struct {
	UserID  uint
	Title   string `validate:"required,max=300"`
	Content string `validate:"required,max=50000"`
}

type UpdatePostInput struct {
	PostID  uint
	UserID  uint
	Title   string `validate:"required,max=300"`
	Content string `validate:"required,max=50000"`
}

type ListFeedInput struct {
	Limit         int
	Offset        int
	UserID        *uint
	IsProfilePage bool
}

// NewPostService builds a PostService. store may be nil, which disables
// content caching.
func NewPostService(postRepo repository.PostRepository, store *cache.Store) *PostService {
	return &PostService{
		postRepo: postRepo,
		cache:    store,
	}
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	post := &models.Post{
		Title:   in.Title,
		Content: in.Content,
		UserID:  in.UserID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost overwrites a post owned by in.UserID. Concurrent edits are
// last-write-wins.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) error {
	if err := validation.Struct(in); err != nil {
		return models.NewValidationError(err.Error())
	}

	if err := s.postRepo.Update(ctx, in.PostID, in.UserID, in.Title, in.Content); err != nil {
		return err
	}
	s.cache.InvalidatePost(ctx, in.PostID)
	return nil
}

// DeletePost removes a post owned by userID together with its comments.
func (s *PostService) DeletePost(ctx context.Context, postID, userID uint) error {
	if err := s.postRepo.DeleteWithComments(ctx, postID, userID); err != nil {
		return err
	}
	s.cache.InvalidatePost(ctx, postID)
	return nil
}

// ListFeed returns one page of the home feed, or of one author's posts when
// IsProfilePage is set.
func (s *PostService) ListFeed(ctx context.Context, in ListFeedInput) ([]models.PostSummary, error) {
	q := repository.FeedQuery{Limit: in.Limit, Offset: in.Offset}
	if in.IsProfilePage {
		if in.UserID == nil || *in.UserID == 0 {
			return nil, ErrMissingAuthorFilter
		}
		q.AuthorID = in.UserID
	}
	return s.postRepo.ListSummaries(ctx, q)
}

// GetContent returns the body of a post, served from cache when possible.
func (s *PostService) GetContent(ctx context.Context, postID uint) (string, error) {
	var content string
	err := s.cache.Aside(ctx, cache.PostContentKey(postID), &content, cache.PostContentTTL, func() error {
		var err error
		content, err = s.postRepo.GetContent(ctx, postID)
		return err
	})
	if err != nil {
		return "", err
	}
	return content, nil
}
