package handlers

import (
	"blogspace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CommentHandler handles HTTP requests on the flat comment collection.
type CommentHandler struct {
	commentService *services.CommentService
	validate       *validator.Validate
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(commentService *services.CommentService) *CommentHandler {
	return &CommentHandler{
		commentService: commentService,
		validate:       validator.New(),
	}
}

// RegisterRoutes registers the comment routes with the Fiber app.
func (h *CommentHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	comments := router.Group("/comments")
	comments.Get("/", h.HandleListComments)
	comments.Post("/", authRequired, h.HandleCreateComment)
	comments.Patch("/:id/", authRequired, h.HandleUpdateComment)
	comments.Delete("/:id/", authRequired, h.HandleDeleteComment)
}

// HandleListComments lists comments oldest-first, optionally filtered by
// post via the ?post= query parameter.
func (h *CommentHandler) HandleListComments(c *fiber.Ctx) error {
	comments, err := h.commentService.ListComments(c.Query("post"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comments)
}

// CreateCommentRequest represents the request body for creating a comment
// through the flat collection; the target post travels in the body.
type CreateCommentRequest struct {
	PostID  string `json:"post_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// HandleCreateComment creates a comment by the caller on the given post.
func (h *CommentHandler) HandleCreateComment(c *fiber.Ctx) error {
	var req CreateCommentRequest
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

	comment, err := h.commentService.AddComment(callerID(c), req.PostID, req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// UpdateCommentRequest represents the request body for updating a comment.
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// HandleUpdateComment replaces the content of a comment owned by the caller.
func (h *CommentHandler) HandleUpdateComment(c *fiber.Ctx) error {
	var req UpdateCommentRequest
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

	comment, err := h.commentService.UpdateComment(callerID(c), c.Params("id"), req.Content)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(comment)
}

// HandleDeleteComment deletes a comment owned by the caller.
func (h *CommentHandler) HandleDeleteComment(c *fiber.Ctx) error {
	if err := h.commentService.DeleteComment(callerID(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
