package services_test

import (
	"fmt"
	"testing"

	"blogspace/internal/models"
	"blogspace/internal/repositories"
	"blogspace/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCommentService_AddComment(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	service := services.NewCommentService(mockComments, mockPosts, nil)

	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil).Once()
	mockComments.On("Create", mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = "comment-1"
	}).Return(nil).Once()
	mockComments.On("GetByID", "comment-1").Return(&models.Comment{
		ID:       "comment-1",
		PostID:   "post-1",
		AuthorID: "user-1",
		Content:  "Nice post!",
		Author:   models.User{ID: "user-1", Username: "alice"},
	}, nil).Once()

	comment, err := service.AddComment("user-1", "post-1", "Nice post!")
	assert.NoError(t, err)
	assert.Equal(t, "comment-1", comment.ID)
	assert.Equal(t, "alice", comment.Author.Username, "author detail is embedded")
	mockPosts.AssertExpectations(t)
	mockComments.AssertExpectations(t)
}

func TestCommentService_AddComment_PostNotFound(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	service := services.NewCommentService(mockComments, mockPosts, nil)

	mockPosts.On("GetByID", "missing").Return(nil, fmt.Errorf("post missing: %w", repositories.ErrNotFound)).Once()
	_, err := service.AddComment("user-1", "missing", "Nice post!")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockComments.AssertNotCalled(t, "Create", mock.Anything)
}

func TestCommentService_AddComment_ContentLengthBoundary(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	service := services.NewCommentService(mockComments, mockPosts, nil)

	// Two trimmed characters are rejected.
	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil).Once()
	_, err := service.AddComment("user-1", "post-1", "  ab  ")
	var validationErr *services.ValidationError
	assert.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "content")
	mockComments.AssertNotCalled(t, "Create", mock.Anything)

	// Exactly three trimmed characters are accepted.
	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil).Once()
	mockComments.On("Create", mock.AnythingOfType("*models.Comment")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Comment).ID = "comment-1"
	}).Return(nil).Once()
	mockComments.On("GetByID", "comment-1").Return(&models.Comment{ID: "comment-1", Content: " abc "}, nil).Once()

	_, err = service.AddComment("user-1", "post-1", " abc ")
	assert.NoError(t, err)
	mockComments.AssertExpectations(t)
}

func TestCommentService_UpdateComment_AuthorOnly(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	service := services.NewCommentService(mockComments, mockPosts, nil)

	existing := &models.Comment{ID: "comment-1", PostID: "post-1", AuthorID: "user-1", Content: "Original"}

	// Non-author is rejected
	mockComments.On("GetByID", "comment-1").Return(existing, nil).Once()
	_, err := service.UpdateComment("user-2", "comment-1", "Hijacked")
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockComments.AssertNotCalled(t, "Update", mock.Anything)

	// Author succeeds
	mockComments.On("GetByID", "comment-1").Return(existing, nil).Once()
	mockComments.On("Update", mock.MatchedBy(func(c *models.Comment) bool {
		return c.Content == "Edited content"
	})).Return(nil).Once()
	comment, err := service.UpdateComment("user-1", "comment-1", "Edited content")
	assert.NoError(t, err)
	assert.Equal(t, "Edited content", comment.Content)
	mockComments.AssertExpectations(t)
}

func TestCommentService_DeleteComment(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	service := services.NewCommentService(mockComments, mockPosts, nil)

	existing := &models.Comment{ID: "comment-1", AuthorID: "user-1"}

	// Non-author is rejected
	mockComments.On("GetByID", "comment-1").Return(existing, nil).Once()
	err := service.DeleteComment("user-2", "comment-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockComments.AssertNotCalled(t, "Delete", mock.Anything)

	// Author succeeds
	mockComments.On("GetByID", "comment-1").Return(existing, nil).Once()
	mockComments.On("Delete", "comment-1").Return(nil).Once()
	err = service.DeleteComment("user-1", "comment-1")
	assert.NoError(t, err)

	// Missing comment
	mockComments.On("GetByID", "missing").Return(nil, fmt.Errorf("comment missing: %w", repositories.ErrNotFound)).Once()
	err = service.DeleteComment("user-1", "missing")
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockComments.AssertExpectations(t)
}

func TestCommentService_ListCommentsForPost(t *testing.T) {
	mockComments := new(MockCommentRepository)
	mockPosts := new(MockPostRepository)
	service := services.NewCommentService(mockComments, mockPosts, nil)

	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1"}, nil).Once()
	mockComments.On("List", "post-1").Return([]models.Comment{{ID: "comment-1"}}, nil).Once()

	comments, err := service.ListCommentsForPost("post-1")
	assert.NoError(t, err)
	assert.Len(t, comments, 1)

	// Listing comments of a missing post is a not-found error
	mockPosts.On("GetByID", "missing").Return(nil, fmt.Errorf("post missing: %w", repositories.ErrNotFound)).Once()
	_, err = service.ListCommentsForPost("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockPosts.AssertExpectations(t)
	mockComments.AssertExpectations(t)
}
