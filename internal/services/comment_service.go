package services

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"blogspace/internal/models"
	"blogspace/internal/repositories"
	"blogspace/pkg/rabbitmq"
)

// CommentService handles business logic related to comments.
type CommentService struct {
	commentRepo repositories.CommentRepository
	postRepo    repositories.PostRepository
	mqClient    *rabbitmq.Client
}

// NewCommentService creates a new CommentService.
func NewCommentService(commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, mqClient *rabbitmq.Client) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		mqClient:    mqClient,
	}
}

// AddComment creates a comment on an existing post and returns it with the
// author embedded.
func (s *CommentService) AddComment(authorID, postID, content string) (*models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to add comment: %w", err)
	}

	created, err := s.commentRepo.GetByID(comment.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload created comment: %w", err)
	}

	s.publishEvent("comment.created", map[string]interface{}{
		"commentID": created.ID,
		"postID":    created.PostID,
		"authorID":  created.AuthorID,
	})

	return created, nil
}

// ListCommentsForPost returns the comments of an existing post, oldest-first.
func (s *CommentService) ListCommentsForPost(postID string) ([]models.Comment, error) {
	if _, err := s.postRepo.GetByID(postID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.commentRepo.List(postID)
}

// ListComments returns comments oldest-first, optionally filtered by post.
// Unlike ListCommentsForPost, an unknown post yields an empty list.
func (s *CommentService) ListComments(postID string) ([]models.Comment, error) {
	return s.commentRepo.List(postID)
}

// UpdateComment replaces the content of a comment owned by the caller.
func (s *CommentService) UpdateComment(callerID, commentID, content string) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if comment.AuthorID != callerID {
		return nil, ErrForbidden
	}
	if err := validateCommentContent(content); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, fmt.Errorf("failed to update comment %s: %w", commentID, err)
	}
	return comment, nil
}

// DeleteComment removes a comment owned by the caller.
func (s *CommentService) DeleteComment(callerID, commentID string) error {
	comment, err := s.commentRepo.GetByID(commentID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if comment.AuthorID != callerID {
		return ErrForbidden
	}
	if err := s.commentRepo.Delete(commentID); err != nil {
		return fmt.Errorf("failed to delete comment %s: %w", commentID, err)
	}
	return nil
}

func validateCommentContent(content string) error {
	if len(strings.TrimSpace(content)) < 3 {
		return NewValidationError("content", "Comment must be at least 3 characters long")
	}
	return nil
}

func (s *CommentService) publishEvent(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.Publish(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
