package models

import "time"

// Post represents a blog post. The slug is generated from the title exactly
// once, at creation time, and is never recomputed afterwards even if the
// title changes. Uniqueness is ultimately enforced by the database index.
type Post struct {
	ID            string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	AuthorID      string    `json:"author_id" gorm:"index;type:varchar(36);not null"`
	Author        User      `json:"author" gorm:"foreignKey:AuthorID"`
	Title         string    `json:"title" gorm:"type:varchar(200);not null" validate:"required,min=5,max=200"`
	Slug          string    `json:"slug" gorm:"uniqueIndex;type:varchar(220);not null"`
	Excerpt       string    `json:"excerpt" gorm:"type:varchar(300);not null" validate:"required,min=10,max=300"`
	Content       string    `json:"content" gorm:"type:text;not null" validate:"required,min=50"`
	FeaturedImage string    `json:"featured_image" gorm:"type:varchar(512)"`
	Published     bool      `json:"published" gorm:"not null;default:true"`
	// CommentCount is derived at query time, never stored.
	CommentCount int64     `json:"comment_count" gorm:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
