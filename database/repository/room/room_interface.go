package roomRepo

import (
	"context"

	"hotelbooking/models"
)

// RoomRepository persists the room catalog. Rooms are deleted through
// bookingRepo.BookingRepository.DeleteRoomIfIdle, which guards active bookings.
type RoomRepository interface {
	// Create returns repository.ErrDuplicateKey when the slug or id is taken.
	Create(ctx context.Context, room *models.Room) error
	// GetByID and GetBySlug return nil, nil when nothing matches.
	GetByID(ctx context.Context, id string) (*models.Room, error)
	GetBySlug(ctx context.Context, slug string) (*models.Room, error)
	List(ctx context.Context, filter models.RoomFilter) ([]models.Room, error)
	// Update returns repository.ErrNotFound when no room has the id.
	Update(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error)
}
