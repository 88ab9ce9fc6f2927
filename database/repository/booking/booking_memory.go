package bookingRepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"
)

// RoomStore lets the in-memory store verify that a room exists and remove it.
type RoomStore interface {
	GetByID(ctx context.Context, id string) (*models.Room, error)
	Delete(ctx context.Context, id string) error
}

// MemoryBookingRepo keeps bookings in process memory. The mutex serializes
// InsertIfAvailable and DeleteRoomIfIdle so each check and write is atomic.
type MemoryBookingRepo struct {
	mu       sync.RWMutex
	rooms    RoomStore
	bookings map[string]models.Booking
	refs     map[string]string
}

// NewMemoryBookingRepo creates an empty store. rooms may be nil to skip the room check.
func NewMemoryBookingRepo(rooms RoomStore) *MemoryBookingRepo {
	return &MemoryBookingRepo{
		rooms:    rooms,
		bookings: make(map[string]models.Booking),
		refs:     make(map[string]string),
	}
}

func (r *MemoryBookingRepo) InsertIfAvailable(ctx context.Context, b *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.rooms != nil {
		room, err := r.rooms.GetByID(ctx, b.RoomID)
		if err != nil {
			return err
		}
		if room == nil {
			return repository.ErrNotFound
		}
	}

	if _, taken := r.refs[b.Reference]; taken {
		return repository.ErrDuplicateReference
	}
	if r.overlapLocked(b.RoomID, b.CheckIn, b.CheckOut, "") {
		return repository.ErrOverlap
	}
	r.bookings[b.ID] = *b
	r.refs[b.Reference] = b.ID
	return nil
}

func (r *MemoryBookingRepo) HasOverlap(_ context.Context, roomID string, checkIn, checkOut models.Date, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.overlapLocked(roomID, checkIn, checkOut, excludeID), nil
}

func (r *MemoryBookingRepo) overlapLocked(roomID string, checkIn, checkOut models.Date, excludeID string) bool {
	for id, b := range r.bookings {
		if id == excludeID || b.RoomID != roomID || !b.Status.IsActive() {
			continue
		}
		if b.CheckIn.Before(checkOut) && checkIn.Before(b.CheckOut) {
			return true
		}
	}
	return false
}

func (r *MemoryBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *MemoryBookingRepo) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	r.mu.RLock()
	id, ok := r.refs[reference]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	return r.GetByID(ctx, id)
}

func (r *MemoryBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return r.collect(func(b models.Booking) bool { return b.UserID == userID }, newestFirst), nil
}

func (r *MemoryBookingRepo) ListAll(_ context.Context) ([]models.Booking, error) {
	return r.collect(func(models.Booking) bool { return true }, newestFirst), nil
}

func (r *MemoryBookingRepo) ListActiveInRange(_ context.Context, roomID string, from, to models.Date) ([]models.Booking, error) {
	return r.collect(func(b models.Booking) bool {
		return b.RoomID == roomID && b.Status.IsActive() && b.CheckIn.Before(to) && from.Before(b.CheckOut)
	}, byCheckIn), nil
}

func (r *MemoryBookingRepo) DeleteRoomIfIdle(ctx context.Context, roomID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.RoomID == roomID && b.Status.IsActive() {
			return repository.ErrActiveBookings
		}
	}
	if r.rooms == nil {
		return repository.ErrNotFound
	}
	return r.rooms.Delete(ctx, roomID)
}

func (r *MemoryBookingRepo) UpdateStatus(_ context.Context, id string, expected models.BookingStatus, upd models.BookingUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if b.Status != expected {
		return nil, repository.ErrStaleStatus
	}
	upd.Apply(&b)
	b.UpdatedAt = time.Now().UTC()
	r.bookings[id] = b
	return &b, nil
}

func (r *MemoryBookingRepo) collect(keep func(models.Booking) bool, less func(a, b models.Booking) bool) []models.Booking {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Booking, 0)
	for _, b := range r.bookings {
		if keep(b) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func newestFirst(a, b models.Booking) bool {
	if a.CreatedAt.Equal(b.CreatedAt) {
		return a.Reference > b.Reference
	}
	return a.CreatedAt.After(b.CreatedAt)
}

func byCheckIn(a, b models.Booking) bool {
	return a.CheckIn.Before(b.CheckIn)
}
