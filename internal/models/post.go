package models

import "time"

// Post is a blog post. Content is only served by the detail endpoint.
type Post struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostSummary is one row of a feed page. It never carries the post body, and
// CommentCount is computed from live comment rows on every read.
type PostSummary struct {
	ID           uint      `json:"id"`
	Title        string    `json:"title"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	UserID       uint      `json:"user_id"`
	Username     string    `json:"username"`
	CommentCount int64     `json:"comment_count"`
}
