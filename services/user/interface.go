package user

import (
	"context"

	userRepo "hotelbooking/database/repository/user"
	"hotelbooking/models"
	"hotelbooking/utils"

	"go.uber.org/zap"
)

type UserService interface {
	Register(ctx context.Context, reg models.UserRegistration) (*AuthResponse, error)
	Authenticate(ctx context.Context, email, password string) (*AuthResponse, error)
	Logout(ctx context.Context, tokenHash string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]models.User, error)
	EnsureAdmin(ctx context.Context, email, password string) (*models.User, error)
	CreateUser(ctx context.Context, reg models.UserRegistration) (*models.User, error)
	UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error)
}

// SessionStore records issued tokens so they can be revoked.
type SessionStore interface {
	Save(ctx context.Context, tokenHash string, session utils.AuthSession) error
	Delete(ctx context.Context, tokenHash string) error
}

// DefaultUserService is the production implementation. Sessions may be nil.
type DefaultUserService struct {
	Repo     userRepo.UserRepository
	Tokens   *utils.TokenManager
	Sessions SessionStore
	Logger   *zap.Logger
}

// AuthResponse contains the user's ID, token, and additional details.
type AuthResponse struct {
	ID        string       `json:"id"`
	Token     string       `json:"token"`
	ExpiresAt int64        `json:"expires_at"`
	User      *models.User `json:"user"`
}
