package services

import (
	"errors"
	"fmt"
	"log"

	"blogspace/internal/models"
	"blogspace/internal/repositories"
	"blogspace/pkg/rabbitmq"
)

// PostService handles business logic related to posts.
type PostService struct {
	postRepo    repositories.PostRepository
	commentRepo repositories.CommentRepository
	mqClient    *rabbitmq.Client
}

// NewPostService creates a new PostService.
func NewPostService(postRepo repositories.PostRepository, commentRepo repositories.CommentRepository, mqClient *rabbitmq.Client) *PostService {
	return &PostService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		mqClient:    mqClient,
	}
}

// PostInput carries the caller-supplied fields for creating a post.
type PostInput struct {
	Title         string
	Excerpt       string
	Content       string
	FeaturedImage string
	Published     bool
}

// PostUpdate lists the mutable post fields. Nil fields are left untouched;
// the slug and the author are immutable.
type PostUpdate struct {
	Title         *string
	Excerpt       *string
	Content       *string
	FeaturedImage *string
	Published     *bool
}

// CreatePost creates a post owned by the given author, generating a unique
// slug from the title.
func (s *PostService) CreatePost(authorID string, input PostInput) (*models.Post, error) {
	slug, counter, err := s.nextFreeSlug(input.Title)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		AuthorID:      authorID,
		Title:         input.Title,
		Slug:          slug,
		Excerpt:       input.Excerpt,
		Content:       input.Content,
		FeaturedImage: input.FeaturedImage,
		Published:     input.Published,
	}
	if err := s.postRepo.Create(post); err != nil {
		if !errors.Is(err, repositories.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
		// A concurrent create took the probed slug between the existence
		// check and the write. Retry once with the next counter value.
		post.ID = ""
		post.Slug = fmt.Sprintf("%s-%d", Slugify(input.Title), counter)
		if err := s.postRepo.Create(post); err != nil {
			if errors.Is(err, repositories.ErrDuplicate) {
				return nil, fmt.Errorf("slug %q taken: %w", post.Slug, ErrConflict)
			}
			return nil, fmt.Errorf("failed to create post: %w", err)
		}
	}

	created, err := s.postRepo.GetByID(post.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created post: %w", err)
	}

	s.publishEvent("post.created", map[string]interface{}{
		"postID":   created.ID,
		"authorID": created.AuthorID,
		"slug":     created.Slug,
	})

	return created, nil
}

// nextFreeSlug probes slugify(title), slugify(title)-1, -2, ... until it
// finds a candidate not yet in the store. It returns the candidate and the
// counter value to use if the write still collides.
func (s *PostService) nextFreeSlug(title string) (string, int, error) {
	base := Slugify(title)
	slug := base
	counter := 1
	for {
		exists, err := s.postRepo.SlugExists(slug)
		if err != nil {
			return "", 0, fmt.Errorf("failed to probe slug %q: %w", slug, err)
		}
		if !exists {
			return slug, counter, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
		counter++
	}
}

// GetPost returns a post with its comments, oldest-first.
func (s *PostService) GetPost(id string) (*models.Post, []models.Comment, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	comments, err := s.commentRepo.List(id)
	if err != nil {
		return nil, nil, err
	}
	return post, comments, nil
}

// ListPosts returns posts newest-first, optionally filtered by author.
// Anonymous callers never see unpublished posts; authenticated callers see
// all posts matching the filter.
func (s *PostService) ListPosts(authorID string, authenticated bool) ([]models.Post, error) {
	return s.postRepo.List(repositories.PostListFilter{
		AuthorID:      authorID,
		PublishedOnly: !authenticated,
	})
}

// UpdatePost applies the provided fields to a post owned by the caller. The
// slug is never recomputed, even when the title changes.
func (s *PostService) UpdatePost(callerID, postID string, update PostUpdate) (*models.Post, error) {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if post.AuthorID != callerID {
		return nil, ErrForbidden
	}

	if update.Title != nil {
		post.Title = *update.Title
	}
	if update.Excerpt != nil {
		post.Excerpt = *update.Excerpt
	}
	if update.Content != nil {
		post.Content = *update.Content
	}
	if update.FeaturedImage != nil {
		post.FeaturedImage = *update.FeaturedImage
	}
	if update.Published != nil {
		post.Published = *update.Published
	}

	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("failed to update post %s: %w", postID, err)
	}
	return s.postRepo.GetByID(postID)
}

// DeletePost removes a post owned by the caller together with all of its
// comments.
func (s *PostService) DeletePost(callerID, postID string) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if post.AuthorID != callerID {
		return ErrForbidden
	}

	if err := s.postRepo.Delete(postID); err != nil {
		return fmt.Errorf("failed to delete post %s: %w", postID, err)
	}

	s.publishEvent("post.deleted", map[string]interface{}{
		"postID":   postID,
		"authorID": callerID,
	})
	return nil
}

func (s *PostService) publishEvent(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.Publish(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
