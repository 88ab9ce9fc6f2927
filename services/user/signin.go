package user

import (
	"context"
	"fmt"
	"time"

	"hotelbooking/models"
	"hotelbooking/utils"

	"go.uber.org/zap"
)

func (s *DefaultUserService) Authenticate(ctx context.Context, email, password string) (*AuthResponse, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		s.log().Error("Authenticate: failed to fetch user", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if u == nil || !utils.CheckPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// issue signs a token for u and records its session when a store is configured.
func (s *DefaultUserService) issue(ctx context.Context, u *models.User) (*AuthResponse, error) {
	token, exp, err := s.Tokens.GenerateToken(u.ID, u.Email, u.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	if s.Sessions != nil {
		err := s.Sessions.Save(ctx, utils.HashToken(token), utils.AuthSession{
			UserID:    u.ID,
			Email:     u.Email,
			Role:      u.Role,
			CreatedAt: time.Now().UTC(),
			ExpiresAt: exp,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create auth session: %w", err)
		}
	}
	return &AuthResponse{ID: u.ID, Token: token, ExpiresAt: exp.Unix(), User: u}, nil
}

// Logout revokes the session of the presented token. Without a session store it is a no-op.
func (s *DefaultUserService) Logout(ctx context.Context, tokenHash string) error {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions.Delete(ctx, tokenHash)
}

func (s *DefaultUserService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *DefaultUserService) GetAllUsers(ctx context.Context) ([]models.User, error) {
	return s.Repo.GetAll(ctx)
}
