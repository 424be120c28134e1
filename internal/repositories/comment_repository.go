package repositories

import "blogspace/internal/models"

// CommentRepository defines the interface for comment data access.
type CommentRepository interface {
	Create(comment *models.Comment) error
	// GetByID returns the comment with its author preloaded.
	GetByID(id string) (*models.Comment, error)
	// List returns comments oldest-first, optionally filtered by post.
	// An empty postID returns all comments.
	List(postID string) ([]models.Comment, error)
	Update(comment *models.Comment) error
	Delete(id string) error
}
