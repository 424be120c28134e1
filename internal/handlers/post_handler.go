package handlers

import (
	"log"

	"blogspace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// PostHandler handles HTTP requests for posts and their nested comment
// routes.
type PostHandler struct {
	postService    *services.PostService
	commentService *services.CommentService
	validate       *validator.Validate
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *services.PostService, commentService *services.CommentService) *PostHandler {
	return &PostHandler{
		postService:    postService,
		commentService: commentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the post routes with the Fiber app. Reads are
// open; writes require authentication.
func (h *PostHandler) RegisterRoutes(router fiber.Router, authRequired, optionalAuth fiber.Handler) {
	posts := router.Group("/posts")
	posts.Get("/", optionalAuth, h.HandleListPosts)
	posts.Post("/", authRequired, h.HandleCreatePost)
	posts.Get("/:id/", h.HandleGetPost)
	posts.Patch("/:id/", authRequired, h.HandleUpdatePost)
	posts.Delete("/:id/", authRequired, h.HandleDeletePost)
	posts.Get("/:id/comments/", h.HandleListComments)
	posts.Post("/:id/add_comment/", authRequired, h.HandleAddComment)
}

// HandleListPosts lists posts newest-first, optionally filtered by author.
// Anonymous callers only see published posts.
func (h *PostHandler) HandleListPosts(c *fiber.Ctx) error {
	authorID := c.Query("author")
	authenticated := callerID(c) != ""

	posts, err := h.postService.ListPosts(authorID, authenticated)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newPostListItems(posts))
}

// CreatePostRequest represents the request body for creating a post.
type CreatePostRequest struct {
	Title         string `json:"title" validate:"required,min=5,max=200"`
	Excerpt       string `json:"excerpt" validate:"required,min=10,max=300"`
	Content       string `json:"content" validate:"required,min=50"`
	FeaturedImage string `json:"featured_image" validate:"omitempty,max=512"`
	Published     *bool  `json:"published"`
}

// HandleCreatePost creates a post owned by the caller.
func (h *PostHandler) HandleCreatePost(c *fiber.Ctx) error {
	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing create post request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	published := true
	if req.Published != nil {
		published = *req.Published
	}

	post, err := h.postService.CreatePost(callerID(c), services.PostInput{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Published:     published,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newPostDetail(post, nil))
}

// HandleGetPost returns a post with its comments, oldest-first.
func (h *PostHandler) HandleGetPost(c *fiber.Ctx) error {
	post, comments, err := h.postService.GetPost(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(newPostDetail(post, comments))
}

// UpdatePostRequest represents the request body for partially updating a
// post. The slug is never recomputed, even when the title changes.
type UpdatePostRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=5,max=200"`
	Excerpt       *string `json:"excerpt" validate:"omitempty,min=10,max=300"`
	Content       *string `json:"content" validate:"omitempty,min=50"`
	FeaturedImage *string `json:"featured_image" validate:"omitempty,max=512"`
	Published     *bool   `json:"published"`
}

// HandleUpdatePost applies the provided fields to a post owned by the caller.
func (h *PostHandler) HandleUpdatePost(c *fiber.Ctx) error {
	var req UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	post, err := h.postService.UpdatePost(callerID(c), c.Params("id"), services.PostUpdate{
		Title:         req.Title,
		Excerpt:       req.Excerpt,
		Content:       req.Content,
		FeaturedImage: req.FeaturedImage,
		Published:     req.Published,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(post)
}

// HandleDeletePost deletes a post owned by the caller together with its
// comments.
func (h *PostHandler) HandleDeletePost(c *fiber.Ctx) error {
	if err := h.postService.DeletePost(callerID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListComments returns the comments of a post, oldest-first.
func (h *PostHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.commentService.ListCommentsForPost(c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// AddCommentRequest represents the request body for commenting on a post.
type AddCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleAddComment adds a comment by the caller to a post.
func (h *PostHandler) HandleAddComment(c *fiber.Ctx) error {
	var req AddCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  formatValidationErrors(err),
		})
	}

	comment, err := h.commentService.AddComment(callerID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}
