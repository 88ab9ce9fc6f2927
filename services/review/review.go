package review

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hotelbooking/database/repository"
	bookingRepo "hotelbooking/database/repository/booking"
	reviewRepo "hotelbooking/database/repository/review"
	userRepo "hotelbooking/database/repository/user"
	"hotelbooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("you have already reviewed this room")
	ErrBookingNotOwned = errors.New("booking not found or does not belong to user")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrEmptyUpdate     = errors.New("no fields to update")
)

// RoomFinder resolves a room by id or slug. It returns room.ErrRoomNotFound for unknown rooms.
type RoomFinder interface {
	Get(ctx context.Context, idOrSlug string) (*models.Room, error)
}

type ReviewService interface {
	ListForRoom(ctx context.Context, idOrSlug string) ([]models.Review, error)
	ListAll(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error)
	Create(ctx context.Context, userID string, req models.ReviewRequest) (*models.Review, error)
	Update(ctx context.Context, id string, upd models.ReviewUpdate) (*models.Review, error)
	SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context, idOrSlug string) (*models.ReviewStats, error)
}

// DefaultReviewService implements ReviewService.
type DefaultReviewService struct {
	Repo     reviewRepo.ReviewRepository
	Rooms    RoomFinder
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Logger   *zap.Logger
}

func (s *DefaultReviewService) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

func publishedIn(roomID string) models.ReviewFilter {
	approved := true
	return models.ReviewFilter{RoomID: roomID, Approved: &approved}
}

// ListForRoom returns the approved reviews of a room, newest first.
func (s *DefaultReviewService) ListForRoom(ctx context.Context, idOrSlug string) ([]models.Review, error) {
	room, err := s.Rooms.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	return s.Repo.List(ctx, publishedIn(room.ID))
}

// ListAll is the moderation view: every review matching filter.
func (s *DefaultReviewService) ListAll(ctx context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	return s.Repo.List(ctx, filter)
}

// Create stores a review pending approval. A booking, when given, must belong to
// the author and be for the reviewed room.
func (s *DefaultReviewService) Create(ctx context.Context, userID string, req models.ReviewRequest) (*models.Review, error) {
	if req.Rating < models.MinRating || req.Rating > models.MaxRating {
		return nil, ErrInvalidRating
	}
	room, err := s.Rooms.Get(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}

	rv := &models.Review{
		ID:       uuid.New().String(),
		UserID:   userID,
		RoomID:   room.ID,
		RoomName: room.Name,
		Rating:   req.Rating,
		Comment:  strings.TrimSpace(req.Comment),
	}

	if req.BookingID != "" {
		b, err := s.Bookings.GetByID(ctx, req.BookingID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch booking %s: %w", req.BookingID, err)
		}
		if b == nil || b.UserID != userID || b.RoomID != room.ID {
			return nil, ErrBookingNotOwned
		}
		rv.BookingID = b.ID
		rv.BookingReference = b.Reference
	}

	if s.Users != nil {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch user %s: %w", userID, err)
		}
		if u != nil {
			rv.AuthorName = u.FullName()
		}
	}

	if err := s.Repo.Create(ctx, rv); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	s.log().Info("Review submitted",
		zap.String("review", rv.ID),
		zap.String("room", rv.RoomID),
		zap.Int("rating", rv.Rating))
	return rv, nil
}

// Update applies an admin edit.
func (s *DefaultReviewService) Update(ctx context.Context, id string, upd models.ReviewUpdate) (*models.Review, error) {
	if upd.Empty() {
		return nil, ErrEmptyUpdate
	}
	if upd.Rating != nil && (*upd.Rating < models.MinRating || *upd.Rating > models.MaxRating) {
		return nil, ErrInvalidRating
	}
	if upd.Comment != nil {
		c := strings.TrimSpace(*upd.Comment)
		upd.Comment = &c
	}
	rv, err := s.Repo.Update(ctx, id, upd)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return rv, nil
}

// SetApproved publishes or withdraws a review.
func (s *DefaultReviewService) SetApproved(ctx context.Context, id string, approved bool) (*models.Review, error) {
	rv, err := s.Update(ctx, id, models.ReviewUpdate{IsApproved: &approved})
	if err != nil {
		return nil, err
	}
	s.log().Info("Review moderated", zap.String("review", id), zap.Bool("approved", approved))
	return rv, nil
}

func (s *DefaultReviewService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReviewNotFound
		}
		return err
	}
	s.log().Info("Review deleted", zap.String("review", id))
	return nil
}

// Stats tallies the approved reviews of a room.
func (s *DefaultReviewService) Stats(ctx context.Context, idOrSlug string) (*models.ReviewStats, error) {
	room, err := s.Rooms.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	reviews, err := s.Repo.List(ctx, publishedIn(room.ID))
	if err != nil {
		return nil, err
	}
	st := models.StatsFor(room.ID, reviews)
	return &st, nil
}
