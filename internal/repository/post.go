package repository

import (
	"context"
	"errors"

	"inkwell/internal/models"

	"gorm.io/gorm"
)

const (
	// DefaultFeedLimit applies when a feed query has no positive limit.
	DefaultFeedLimit = 10
	// MaxFeedLimit caps the rows returned by one feed query.
	MaxFeedLimit = 100
)

// FeedQuery selects one page of post summaries. A nil AuthorID lists every
// author.
type FeedQuery struct {
	Limit    int
	Offset   int
	AuthorID *uint
}

// Normalize clamps Limit to [1, MaxFeedLimit] (DefaultFeedLimit when not
// positive) and negative offsets to zero.
func (q FeedQuery) Normalize() FeedQuery {
	if q.Limit <= 0 {
		q.Limit = DefaultFeedLimit
	}
	if q.Limit > MaxFeedLimit {
		q.Limit = MaxFeedLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	Exists(ctx context.Context, id uint) (bool, error)
	GetContent(ctx context.Context, id uint) (string, error)
	Update(ctx context.Context, id, userID uint, title, content string) error
	DeleteWithComments(ctx context.Context, id, userID uint) error
	ListSummaries(ctx context.Context, q FeedQuery) ([]models.PostSummary, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(post).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *postRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Post{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

func (r *postRepository) GetContent(ctx context.Context, id uint) (string, error) {
	var post models.Post
	err := r.db.WithContext(ctx).Select("id", "content").First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", models.ErrPostNotFound
		}
		return "", models.NewInternalError(err)
	}
	return post.Content, nil
}

// Update overwrites title and content of a post owned by userID. A post that
// is missing or owned by someone else yields ErrPostNotFound.
func (r *postRepository) Update(ctx context.Context, id, userID uint, title, content string) error {
	res := r.db.WithContext(ctx).
		Model(&models.Post{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]any{"title": title, "content": content})
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.ErrPostNotFound
	}
	return nil
}

// DeleteWithComments removes the post's comments and then the post in one
// transaction. If the post is not owned by userID nothing is removed.
func (r *postRepository) DeleteWithComments(ctx context.Context, id, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrPostNotFound
		}
		return nil
	})
	if err == nil || errors.Is(err, models.ErrPostNotFound) {
		return err
	}
	return models.NewInternalError(err)
}

// ListSummaries returns one page of summaries, newest first with id breaking
// timestamp ties. Comment counts are computed per row at read time.
func (r *postRepository) ListSummaries(ctx context.Context, q FeedQuery) ([]models.PostSummary, error) {
	q = q.Normalize()

	query := r.db.WithContext(ctx).
		Table("posts").
		Select(`posts.id, posts.title, posts.created_at, posts.updated_at, posts.user_id,
			users.username AS username,
			(SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id) AS comment_count`).
		Joins("JOIN users ON users.id = posts.user_id")
	if q.AuthorID != nil {
		query = query.Where("posts.user_id = ?", *q.AuthorID)
	}

	summaries := make([]models.PostSummary, 0, q.Limit)
	err := query.
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Limit(q.Limit).
		Offset(q.Offset).
		Scan(&summaries).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return summaries, nil
}
