package repositories

import "blogspace/internal/models"

// PostListFilter narrows the post listing.
type PostListFilter struct {
	// AuthorID limits results to a single author when non-empty.
	AuthorID string
	// PublishedOnly hides unpublished posts (applied for anonymous callers).
	PublishedOnly bool
}

// PostRepository defines the interface for post data access.
type PostRepository interface {
	Create(post *models.Post) error
	// GetByID returns the post with its author preloaded and the derived
	// comment count filled in.
	GetByID(id string) (*models.Post, error)
	// List returns posts matching the filter, newest-created first.
	List(filter PostListFilter) ([]models.Post, error)
	Update(post *models.Post) error
	// Delete removes the post and all of its comments in one transaction.
	Delete(id string) error
	SlugExists(slug string) (bool, error)
}
