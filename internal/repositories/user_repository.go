package repositories

import "blogspace/internal/models"

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	// Stats returns the number of posts and comments authored by the user.
	Stats(userID string) (posts int64, comments int64, err error)
}
