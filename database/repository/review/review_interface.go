package reviewRepo

import (
	"context"

	"hotelbooking/models"
)

// ReviewRepository persists room reviews. A user reviews a room at most once.
type ReviewRepository interface {
	// Create returns repository.ErrDuplicateKey when the user already reviewed the room.
	Create(ctx context.Context, review *models.Review) error
	// GetByID returns nil, nil when nothing matches.
	GetByID(ctx context.Context, id string) (*models.Review, error)
	// List returns matching reviews, newest first.
	List(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	// Update returns repository.ErrNotFound when no review has the id.
	Update(ctx context.Context, id string, upd models.ReviewUpdate) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}
