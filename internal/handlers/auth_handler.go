package handlers

import (
	"log"

	"blogspace/internal/models"
	"blogspace/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for accounts and authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the account routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router, authRequired fiber.Handler) {
	accounts := router.Group("/accounts")
	accounts.Post("/register/", h.HandleRegister)
	accounts.Post("/login/", h.HandleLogin)
	accounts.Post("/token/refresh/", h.HandleRefreshToken)
	accounts.Get("/me/", authRequired, h.HandleMe)
	accounts.Patch("/profile/", authRequired, h.HandleUpdateProfile)
	accounts.Post("/change-password/", authRequired, h.HandleChangePassword)
}

// RegisterRequest represents the request body for registration.
type RegisterRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	Password2 string `json:"password2" validate:"required"`
}

// HandleRegister handles new user registration and issues a token pair.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
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

	user, pair, err := h.authService.Register(req.Username, req.Email, req.Password, req.Password2)
	if err != nil {
		return respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":    h.userDetail(user),
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a token pair.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}
	if err := h.validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Please provide both email and password",
			"errors":  formatValidationErrors(err),
		})
	}

	user, pair, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":    h.userDetail(user),
		"access":  pair.Access,
		"refresh": pair.Refresh,
	})
}

// RefreshRequest represents the request body for refreshing an access token.
type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

// HandleRefreshToken exchanges a refresh token for a new access token.
func (h *AuthHandler) HandleRefreshToken(c *fiber.Ctx) error {
	var req RefreshRequest
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

	access, err := h.authService.RefreshAccessToken(req.Refresh)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"access": access,
	})
}

// HandleMe returns the authenticated user's details.
func (h *AuthHandler) HandleMe(c *fiber.Ctx) error {
	user, err := h.authService.GetUser(callerID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.userDetail(user))
}

// ProfileRequest represents the request body for profile updates. Email is
// not accepted here; it is immutable.
type ProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	Avatar   *string `json:"avatar" validate:"omitempty,max=512"`
}

// HandleUpdateProfile updates the mutable profile fields of the caller.
func (h *AuthHandler) HandleUpdateProfile(c *fiber.Ctx) error {
	var req ProfileRequest
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

	user, err := h.authService.UpdateProfile(callerID(c), services.ProfileUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(h.userDetail(user))
}

// ChangePasswordRequest represents the request body for password changes.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

// HandleChangePassword replaces the caller's password.
func (h *AuthHandler) HandleChangePassword(c *fiber.Ctx) error {
	var req ChangePasswordRequest
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

	if err := h.authService.ChangePassword(callerID(c), req.OldPassword, req.NewPassword); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// userDetail attaches the derived counts to a user payload. Count failures
// are logged and reported as zero rather than failing the request.
func (h *AuthHandler) userDetail(user *models.User) userDetail {
	posts, comments, err := h.authService.UserStats(user.ID)
	if err != nil {
		log.Printf("Failed to load stats for user %s: %v", user.ID, err)
	}
	return newUserDetail(user, posts, comments)
}
