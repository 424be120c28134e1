package models

import "time"

// Comment represents a comment on a post. Comments are deleted together
// with their parent post.
type Comment struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	PostID    string    `json:"post_id" gorm:"index;type:varchar(36);not null"`
	AuthorID  string    `json:"author_id" gorm:"index;type:varchar(36);not null"`
	Author    User      `json:"author" gorm:"foreignKey:AuthorID"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
