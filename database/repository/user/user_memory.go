package userRepo

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"
)

// MemoryUserRepo keeps users in a map keyed by id.
type MemoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
}

func NewMemoryUserRepo() *MemoryUserRepo {
	return &MemoryUserRepo{users: make(map[string]models.User)}
}

func (r *MemoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.Email = strings.ToLower(user.Email)
	if _, ok := r.users[user.ID]; ok {
		return repository.ErrDuplicateKey
	}
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateKey
		}
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now
	r.users[user.ID] = *user
	return nil
}

func (r *MemoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *MemoryUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	email = strings.ToLower(email)
	for _, u := range r.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *MemoryUserRepo) GetAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	out := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, u)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryUserRepo) UpdateProfile(_ context.Context, id string, upd models.ProfileUpdate) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	upd.Apply(&u)
	u.UpdatedAt = time.Now().UTC()
	r.users[id] = u
	return &u, nil
}
