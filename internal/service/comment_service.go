package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

type CreateCommentInput struct {
	UserID  uint
	PostID  uint
	Content string `validate:"required,max=10000"`
}

type DeleteCommentInput struct {
	UserID    uint
	PostID    uint
	CommentID uint
}

func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
	}
}

// CreateComment stores a comment on an existing post and returns it with the
// author's username.
func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.Struct(in); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	exists, err := s.postRepo.Exists(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, models.ErrPostNotFound
	}

	comment := &models.Comment{
		Content: in.Content,
		UserID:  in.UserID,
		PostID:  in.PostID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return s.commentRepo.GetByID(ctx, comment.ID)
}

// ListComments returns the comments of a post, newest first. An unknown post
// has no comments.
func (s *CommentService) ListComments(ctx context.Context, postID uint) ([]models.Comment, error) {
	return s.commentRepo.ListByPost(ctx, postID)
}

func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	return s.commentRepo.Delete(ctx, in.CommentID, in.PostID, in.UserID)
}
