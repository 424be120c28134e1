package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"blogspace/internal/models"
	"blogspace/internal/repositories"
	"blogspace/internal/validation"
	"blogspace/pkg/rabbitmq"

	"github.com/dgrijalva/jwt-go"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// TokenPair bundles a short-lived access token with a long-lived refresh
// token. Both are HS256-signed and verified statelessly.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AuthService handles business logic for accounts and authentication.
type AuthService struct {
	userRepo   repositories.UserRepository
	policy     validation.PasswordPolicy
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	mqClient   *rabbitmq.Client
}

// NewAuthService creates a new AuthService. The password policy is pluggable;
// pass validation.NewDefaultPasswordPolicy() for the standard rules.
func NewAuthService(userRepo repositories.UserRepository, policy validation.PasswordPolicy, jwtSecret string, accessTTL, refreshTTL time.Duration, mqClient *rabbitmq.Client) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		policy:     policy,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		mqClient:   mqClient,
	}
}

// Register creates a new account with a hashed password and returns the user
// together with a fresh token pair.
func (s *AuthService) Register(username, email, password, password2 string) (*models.User, *TokenPair, error) {
	if password != password2 {
		return nil, nil, NewValidationError("password", "Password fields didn't match.")
	}
	if err := s.policy.Validate(password, username, email); err != nil {
		return nil, nil, NewValidationError("password", err.Error())
	}
	if existing, err := s.userRepo.GetByEmail(email); err == nil && existing != nil {
		return nil, nil, NewValidationError("email", "A user with this email already exists.")
	}
	if existing, err := s.userRepo.GetByUsername(username); err == nil && existing != nil {
		return nil, nil, NewValidationError("username", "A user with this username already exists.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username: username,
		Email:    email,
		Password: string(hashedPassword),
		Active:   true,
	}
	if err := s.userRepo.Create(user); err != nil {
		// The existence checks above can race with a concurrent registration;
		// the unique indexes are the final authority.
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, nil, NewValidationError("email", "A user with this email already exists.")
		}
		return nil, nil, fmt.Errorf("failed to register user: %w", err)
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}

	s.publishEvent("user.registered", map[string]interface{}{
		"userID":   user.ID,
		"username": user.Username,
	})

	return user, pair, nil
}

// Login authenticates a user by email and password and returns the user
// together with a fresh token pair.
func (s *AuthService) Login(email, password string) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		// Do not reveal whether the email is registered.
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !user.Active {
		return nil, nil, ErrAccountDisabled
	}

	pair, err := s.generateTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshAccessToken validates a refresh token and issues a new access token.
func (s *AuthService) RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return "", err
	}

	userID, _ := claims["user_id"].(string)
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return "", fmt.Errorf("refresh for unknown user: %w", ErrInvalidToken)
	}
	if !user.Active {
		return "", ErrAccountDisabled
	}

	return s.signToken(user, tokenTypeAccess, s.accessTTL)
}

// ValidateAccessToken parses and validates an access token, returning its
// claims if valid. Refresh tokens are rejected here.
func (s *AuthService) ValidateAccessToken(tokenString string) (jwt.MapClaims, error) {
	return s.parseToken(tokenString, tokenTypeAccess)
}

// ChangePassword replaces the user's password hash after verifying the old
// password and checking the new one against the policy.
func (s *AuthService) ChangePassword(userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return fmt.Errorf("change password: %w", ErrNotFound)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return NewValidationError("old_password", "Old password is incorrect")
	}
	if err := s.policy.Validate(newPassword, user.Username, user.Email); err != nil {
		return NewValidationError("new_password", err.Error())
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashedPassword)
	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return nil
}

// ProfileUpdate lists the mutable profile fields. Nil fields are left
// untouched; email is immutable through this path.
type ProfileUpdate struct {
	Username *string
	Bio      *string
	Avatar   *string
}

// UpdateProfile applies the provided profile fields and returns the updated
// user.
func (s *AuthService) UpdateProfile(userID string, update ProfileUpdate) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", ErrNotFound)
	}

	if update.Username != nil && *update.Username != user.Username {
		if existing, err := s.userRepo.GetByUsername(*update.Username); err == nil && existing != nil {
			return nil, NewValidationError("username", "A user with this username already exists.")
		}
		user.Username = *update.Username
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	if update.Avatar != nil {
		user.Avatar = *update.Avatar
	}

	if err := s.userRepo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, NewValidationError("username", "A user with this username already exists.")
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// GetUser loads a user by ID.
func (s *AuthService) GetUser(userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", ErrNotFound)
	}
	return user, nil
}

// UserStats returns the derived post and comment counts for a user.
func (s *AuthService) UserStats(userID string) (posts int64, comments int64, err error) {
	return s.userRepo.Stats(userID)
}

func (s *AuthService) generateTokenPair(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user, tokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user, tokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(user *models.User, tokenType string, ttl time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"type":     tokenType,
		"exp":      time.Now().Add(ttl).Unix(),
		"iat":      time.Now().Unix(),
	})

	tokenString, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

func (s *AuthService) parseToken(tokenString, wantType string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if tokenType, _ := claims["type"].(string); tokenType != wantType {
		return nil, fmt.Errorf("%w: wrong token type", ErrInvalidToken)
	}
	return claims, nil
}

func (s *AuthService) publishEvent(event string, data map[string]interface{}) {
	if s.mqClient == nil {
		return
	}
	if err := s.mqClient.Publish(event, data); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", event, err)
	}
}
