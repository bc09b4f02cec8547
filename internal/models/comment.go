package models

import "time"

// Comment belongs to a post. Removing a post removes its comments in the
// same transaction; there is no database-level cascade.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      User      `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	// Username is joined from users at read time.
	Username string `gorm:"->;-:migration" json:"username"`
}
