package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines interface for comment operations
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]models.Comment, error)
	Delete(ctx context.Context, id, postID, userID uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new CommentRepository
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

// withUsername selects comment rows joined with their author's username.
func (r *commentRepository) withUsername(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&models.Comment{}).
		Select("comments.*, users.username AS username").
		Joins("JOIN users ON users.id = comments.user_id")
}

func (r *commentRepository) Create(ctx context.Context, comment *models.Comment) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.Comment, error) {
	var comment models.Comment
	if err := r.withUsername(ctx).Where("comments.id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrCommentNotFound
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID uint) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.withUsername(ctx).
		Where("comments.post_id = ?", postID).
		Order("comments.created_at DESC").
		Order("comments.id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

// Delete removes a comment only when it belongs to postID and was written by
// userID; otherwise it reports ErrCommentNotFound.
func (r *commentRepository) Delete(ctx context.Context, id, postID, userID uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND post_id = ? AND user_id = ?", id, postID, userID).
		Delete(&models.Comment{})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrCommentNotFound
	}
	return nil
}
