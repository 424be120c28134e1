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

// MockPostRepository is a mock implementation of repositories.PostRepository
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) GetByID(id string) (*models.Post, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *MockPostRepository) List(filter repositories.PostListFilter) ([]models.Post, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Post), args.Error(1)
}

func (m *MockPostRepository) Update(post *models.Post) error {
	args := m.Called(post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockPostRepository) SlugExists(slug string) (bool, error) {
	args := m.Called(slug)
	return args.Bool(0), args.Error(1)
}

// MockCommentRepository is a mock implementation of repositories.CommentRepository
type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) GetByID(id string) (*models.Comment, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Comment), args.Error(1)
}

func (m *MockCommentRepository) List(postID string) ([]models.Comment, error) {
	args := m.Called(postID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *MockCommentRepository) Update(comment *models.Comment) error {
	args := m.Called(comment)
	return args.Error(0)
}

func (m *MockCommentRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

var testPostInput = services.PostInput{
	Title:     "Hello World",
	Excerpt:   "An excerpt of reasonable length",
	Content:   "This content is definitely longer than fifty characters in total.",
	Published: true,
}

func TestPostService_CreatePost_GeneratesSlug(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	mockPosts.On("SlugExists", "hello-world").Return(false, nil).Once()
	mockPosts.On("Create", mock.AnythingOfType("*models.Post")).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Post).ID = "post-1"
	}).Return(nil).Once()
	mockPosts.On("GetByID", "post-1").Return(&models.Post{ID: "post-1", Slug: "hello-world", AuthorID: "user-1"}, nil).Once()

	post, err := service.CreatePost("user-1", testPostInput)
	assert.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "user-1", post.AuthorID)
	mockPosts.AssertExpectations(t)
}

func TestPostService_CreatePost_SlugCollisionProbesSequentially(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	mockPosts.On("SlugExists", "hello-world").Return(true, nil).Once()
	mockPosts.On("SlugExists", "hello-world-1").Return(true, nil).Once()
	mockPosts.On("SlugExists", "hello-world-2").Return(false, nil).Once()
	mockPosts.On("Create", mock.MatchedBy(func(p *models.Post) bool {
		return p.Slug == "hello-world-2"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Post).ID = "post-3"
	}).Return(nil).Once()
	mockPosts.On("GetByID", "post-3").Return(&models.Post{ID: "post-3", Slug: "hello-world-2"}, nil).Once()

	post, err := service.CreatePost("user-1", testPostInput)
	assert.NoError(t, err)
	assert.Equal(t, "hello-world-2", post.Slug)
	mockPosts.AssertExpectations(t)
}

func TestPostService_CreatePost_RetriesOnceOnStoreCollision(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	// The probe sees the base slug free, but a concurrent create commits it
	// first; the unique index rejects the write and the service retries with
	// the next counter value.
	mockPosts.On("SlugExists", "hello-world").Return(false, nil).Once()
	mockPosts.On("Create", mock.MatchedBy(func(p *models.Post) bool {
		return p.Slug == "hello-world"
	})).Return(fmt.Errorf("post create: %w", repositories.ErrDuplicate)).Once()
	mockPosts.On("Create", mock.MatchedBy(func(p *models.Post) bool {
		return p.Slug == "hello-world-1"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*models.Post).ID = "post-2"
	}).Return(nil).Once()
	mockPosts.On("GetByID", "post-2").Return(&models.Post{ID: "post-2", Slug: "hello-world-1"}, nil).Once()

	post, err := service.CreatePost("user-1", testPostInput)
	assert.NoError(t, err)
	assert.Equal(t, "hello-world-1", post.Slug)
	mockPosts.AssertExpectations(t)
}

func TestPostService_CreatePost_ConflictAfterRetry(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	mockPosts.On("SlugExists", "hello-world").Return(false, nil).Once()
	mockPosts.On("Create", mock.AnythingOfType("*models.Post")).
		Return(fmt.Errorf("post create: %w", repositories.ErrDuplicate)).Twice()

	_, err := service.CreatePost("user-1", testPostInput)
	assert.ErrorIs(t, err, services.ErrConflict)
	mockPosts.AssertExpectations(t)
}

func TestPostService_ListPosts_AnonymousSeesPublishedOnly(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	mockPosts.On("List", repositories.PostListFilter{PublishedOnly: true}).Return([]models.Post{}, nil).Once()
	_, err := service.ListPosts("", false)
	assert.NoError(t, err)

	mockPosts.On("List", repositories.PostListFilter{AuthorID: "user-1"}).Return([]models.Post{}, nil).Once()
	_, err = service.ListPosts("user-1", true)
	assert.NoError(t, err)

	mockPosts.AssertExpectations(t)
}

func TestPostService_UpdatePost_SlugNeverRecomputed(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	existing := &models.Post{ID: "post-1", AuthorID: "user-1", Title: "Hello World", Slug: "hello-world"}
	newTitle := "A Completely Different Title"

	mockPosts.On("GetByID", "post-1").Return(existing, nil).Once()
	mockPosts.On("Update", mock.MatchedBy(func(p *models.Post) bool {
		return p.Title == newTitle && p.Slug == "hello-world"
	})).Return(nil).Once()
	mockPosts.On("GetByID", "post-1").Return(existing, nil).Once()

	post, err := service.UpdatePost("user-1", "post-1", services.PostUpdate{Title: &newTitle})
	assert.NoError(t, err)
	assert.Equal(t, "hello-world", post.Slug)
	mockPosts.AssertExpectations(t)
}

func TestPostService_UpdatePost_NonAuthorForbidden(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	existing := &models.Post{ID: "post-1", AuthorID: "user-1"}
	newTitle := "Someone else's title"

	mockPosts.On("GetByID", "post-1").Return(existing, nil).Once()
	_, err := service.UpdatePost("user-2", "post-1", services.PostUpdate{Title: &newTitle})
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockPosts.AssertNotCalled(t, "Update", mock.Anything)
}

func TestPostService_UpdatePost_NotFound(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	mockPosts.On("GetByID", "missing").Return(nil, fmt.Errorf("post missing: %w", repositories.ErrNotFound)).Once()
	_, err := service.UpdatePost("user-1", "missing", services.PostUpdate{})
	assert.ErrorIs(t, err, services.ErrNotFound)
}

func TestPostService_DeletePost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	existing := &models.Post{ID: "post-1", AuthorID: "user-1"}

	// Non-author is rejected
	mockPosts.On("GetByID", "post-1").Return(existing, nil).Once()
	err := service.DeletePost("user-2", "post-1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockPosts.AssertNotCalled(t, "Delete", mock.Anything)

	// Author succeeds
	mockPosts.On("GetByID", "post-1").Return(existing, nil).Once()
	mockPosts.On("Delete", "post-1").Return(nil).Once()
	err = service.DeletePost("user-1", "post-1")
	assert.NoError(t, err)
	mockPosts.AssertExpectations(t)
}

func TestPostService_GetPost(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockComments := new(MockCommentRepository)
	service := services.NewPostService(mockPosts, mockComments, nil)

	existing := &models.Post{ID: "post-1", AuthorID: "user-1", CommentCount: 2}
	postComments := []models.Comment{
		{ID: "comment-1", PostID: "post-1"},
		{ID: "comment-2", PostID: "post-1"},
	}

	mockPosts.On("GetByID", "post-1").Return(existing, nil).Once()
	mockComments.On("List", "post-1").Return(postComments, nil).Once()

	post, comments, err := service.GetPost("post-1")
	assert.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.Len(t, comments, 2)

	mockPosts.On("GetByID", "missing").Return(nil, fmt.Errorf("post missing: %w", repositories.ErrNotFound)).Once()
	_, _, err = service.GetPost("missing")
	assert.ErrorIs(t, err, services.ErrNotFound)

	mockPosts.AssertExpectations(t)
	mockComments.AssertExpectations(t)
}
