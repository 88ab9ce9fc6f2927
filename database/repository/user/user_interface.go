package userRepo

import (
	"context"

	"hotelbooking/models"
)

// UserRepository defines methods for user data access.
type UserRepository interface {
	// Create inserts a new user record. A taken email yields repository.ErrDuplicateKey.
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by its unique ID, nil when missing.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByEmail retrieves a user by its email address, nil when missing.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// GetAll retrieves all users, newest first.
	GetAll(ctx context.Context) ([]models.User, error)
	// UpdateProfile writes the set fields of upd. A missing user yields repository.ErrNotFound.
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.User, error)
}
