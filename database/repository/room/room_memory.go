package roomRepo

import (
	"context"
	"slices"
	"sync"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"
)

// MemoryRoomRepo is a RoomRepository backed by a map.
type MemoryRoomRepo struct {
	mu    sync.RWMutex
	rooms map[string]models.Room
}

func NewMemoryRoomRepo() *MemoryRoomRepo {
	return &MemoryRoomRepo{rooms: make(map[string]models.Room)}
}

func (r *MemoryRoomRepo) Create(_ context.Context, room *models.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[room.ID]; ok {
		return repository.ErrDuplicateKey
	}
	if r.slugTakenLocked(room.Slug, "") {
		return repository.ErrDuplicateKey
	}
	now := time.Now().UTC()
	room.CreatedAt, room.UpdatedAt = now, now
	r.rooms[room.ID] = cloneRoom(*room)
	return nil
}

func (r *MemoryRoomRepo) slugTakenLocked(slug, exceptID string) bool {
	for id, existing := range r.rooms {
		if id != exceptID && existing.Slug == slug {
			return true
		}
	}
	return false
}

func (r *MemoryRoomRepo) GetByID(_ context.Context, id string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, nil
	}
	out := cloneRoom(room)
	return &out, nil
}

func (r *MemoryRoomRepo) GetBySlug(_ context.Context, slug string) (*models.Room, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, room := range r.rooms {
		if room.Slug == slug {
			out := cloneRoom(room)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *MemoryRoomRepo) List(_ context.Context, filter models.RoomFilter) ([]models.Room, error) {
	r.mu.RLock()
	out := make([]models.Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		if filter.Matches(room) {
			out = append(out, cloneRoom(room))
		}
	}
	r.mu.RUnlock()
	models.SortRooms(out, filter.SortBy)
	return out, nil
}

func (r *MemoryRoomRepo) Update(_ context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room, ok := r.rooms[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if upd.Slug != nil && r.slugTakenLocked(*upd.Slug, id) {
		return nil, repository.ErrDuplicateKey
	}
	upd.Apply(&room)
	room.UpdatedAt = time.Now().UTC()
	r.rooms[id] = cloneRoom(room)
	return &room, nil
}

func (r *MemoryRoomRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

func cloneRoom(room models.Room) models.Room {
	room.Amenities = slices.Clone(room.Amenities)
	room.Images = slices.Clone(room.Images)
	return room
}
