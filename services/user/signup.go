package user

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/database/repository"
	"hotelbooking/models"
	"hotelbooking/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Register creates a guest account and signs it in.
func (s *DefaultUserService) Register(ctx context.Context, reg models.UserRegistration) (*AuthResponse, error) {
	u, err := s.create(ctx, reg, models.RoleGuest)
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, u)
}

func (s *DefaultUserService) create(ctx context.Context, reg models.UserRegistration, role string) (*models.User, error) {
	hash, err := utils.HashPassword(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	u := &models.User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(reg.Email)),
		FirstName:    strings.TrimSpace(reg.FirstName),
		LastName:     strings.TrimSpace(reg.LastName),
		Phone:        strings.TrimSpace(reg.Phone),
		Address:      strings.TrimSpace(reg.Address),
		City:         strings.TrimSpace(reg.City),
		Country:      strings.TrimSpace(reg.Country),
		ZipCode:      strings.TrimSpace(reg.ZipCode),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	s.log().Info("User registered", zap.String("user", u.ID), zap.String("role", role))
	return u, nil
}

// CreateUser is the admin path for opening an account. reg.Role defaults to guest.
// No session is issued.
func (s *DefaultUserService) CreateUser(ctx context.Context, reg models.UserRegistration) (*models.User, error) {
	role := reg.Role
	if role == "" {
		role = models.RoleGuest
	}
	if !models.ValidRole(role) {
		return nil, ErrInvalidRole
	}
	return s.create(ctx, reg, role)
}

// UpdateProfile changes the contact details of userID.
func (s *DefaultUserService) UpdateProfile(ctx context.Context, userID string, upd models.ProfileUpdate) (*models.User, error) {
	upd = upd.Trimmed()
	if upd.Empty() {
		return nil, ErrEmptyProfile
	}
	if upd.FirstName != nil && *upd.FirstName == "" {
		return nil, ErrInvalidProfile
	}
	u, err := s.Repo.UpdateProfile(ctx, userID, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	s.log().Info("Profile updated", zap.String("user", userID))
	return u, nil
}

// EnsureAdmin creates the administrator account unless the email is already registered.
func (s *DefaultUserService) EnsureAdmin(ctx context.Context, email, password string) (*models.User, error) {
	existing, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("admin password must be at least 8 characters")
	}
	return s.create(ctx, models.UserRegistration{
		Email:     email,
		Password:  password,
		FirstName: "Administrator",
	}, models.RoleAdmin)
}

func (s *DefaultUserService) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}
