package repositories

import (
	"errors"
	"fmt"

	"blogspace/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMPostRepository is a GORM implementation of PostRepository.
type GORMPostRepository struct {
	db *gorm.DB
}

// NewGORMPostRepository creates a new instance of GORMPostRepository.
func NewGORMPostRepository(db *gorm.DB) *GORMPostRepository {
	return &GORMPostRepository{
		db: db,
	}
}

// Create creates a new post in the database. The unique index on slug is the
// final authority on slug uniqueness; a violation surfaces as ErrDuplicate.
func (r *GORMPostRepository) Create(post *models.Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if err := r.db.Create(post).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("post create: %w", ErrDuplicate)
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

// GetByID retrieves a single post by its ID with the author preloaded.
func (r *GORMPostRepository) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("Author").First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get post by ID %s: %w", id, err)
	}
	if err := r.db.Model(&models.Comment{}).Where("post_id = ?", id).Count(&post.CommentCount).Error; err != nil {
		return nil, fmt.Errorf("failed to count comments for post %s: %w", id, err)
	}
	return &post, nil
}

// List retrieves posts matching the filter, newest-created first, with
// authors preloaded and comment counts filled in.
func (r *GORMPostRepository) List(filter PostListFilter) ([]models.Post, error) {
	query := r.db.Preload("Author").Order("created_at DESC")
	if filter.AuthorID != "" {
		query = query.Where("author_id = ?", filter.AuthorID)
	}
	if filter.PublishedOnly {
		query = query.Where("published = ?", true)
	}

	var posts []models.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	if err := r.fillCommentCounts(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *GORMPostRepository) fillCommentCounts(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, 0, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
	}

	var rows []struct {
		PostID string
		N      int64
	}
	err := r.db.Model(&models.Comment{}).
		Select("post_id, count(*) AS n").
		Where("post_id IN ?", ids).
		Group("post_id").
		Scan(&rows).Error
	if err != nil {
		return fmt.Errorf("failed to count comments: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.PostID] = row.N
	}
	for i := range posts {
		posts[i].CommentCount = counts[posts[i].ID]
	}
	return nil
}

// Update persists changes to an existing post.
func (r *GORMPostRepository) Update(post *models.Post) error {
	res := r.db.Omit("Author").Save(post)
	if res.Error != nil {
		return fmt.Errorf("failed to update post: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("post %s: %w", post.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a post and its comments inside a single transaction, so no
// orphan comments can be observed afterwards.
func (r *GORMPostRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return fmt.Errorf("failed to delete comments of post %s: %w", id, err)
		}
		res := tx.Delete(&models.Post{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete post %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("post %s: %w", id, ErrNotFound)
		}
		return nil
	})
}

// SlugExists reports whether any post already uses the given slug.
func (r *GORMPostRepository) SlugExists(slug string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Post{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check slug %q: %w", slug, err)
	}
	return count > 0, nil
}
