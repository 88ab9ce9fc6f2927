package reviewRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"
)

// MemoryReviewRepo keeps reviews in a map keyed by id.
type MemoryReviewRepo struct {
	mu      sync.RWMutex
	reviews map[string]models.Review
}

func NewMemoryReviewRepo() *MemoryReviewRepo {
	return &MemoryReviewRepo{reviews: make(map[string]models.Review)}
}

func (r *MemoryReviewRepo) Create(_ context.Context, review *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[review.ID]; ok {
		return repository.ErrDuplicateKey
	}
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID && existing.RoomID == review.RoomID {
			return repository.ErrDuplicateKey
		}
	}
	now := time.Now().UTC()
	review.CreatedAt, review.UpdatedAt = now, now
	r.reviews[review.ID] = *review
	return nil
}

func (r *MemoryReviewRepo) GetByID(_ context.Context, id string) (*models.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, nil
	}
	return &review, nil
}

func (r *MemoryReviewRepo) List(_ context.Context, filter models.ReviewFilter) ([]models.Review, error) {
	r.mu.RLock()
	out := make([]models.Review, 0)
	for _, review := range r.reviews {
		if filter.Matches(review) {
			out = append(out, review)
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *MemoryReviewRepo) Update(_ context.Context, id string, upd models.ReviewUpdate) (*models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	upd.Apply(&review)
	review.UpdatedAt = time.Now().UTC()
	r.reviews[id] = review
	return &review, nil
}

func (r *MemoryReviewRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reviews[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.reviews, id)
	return nil
}
