package bookingRepo

import (
	"context"

	"hotelbooking/models"
)

// BookingRepository persists bookings and answers overlap queries.
type BookingRepository interface {
	// InsertIfAvailable re-checks overlap and inserts b as one serialized unit.
	// It returns repository.ErrOverlap when an active booking of the same room intersects b's range,
	// repository.ErrDuplicateReference when b.Reference is taken and repository.ErrNotFound when the room is missing.
	InsertIfAvailable(ctx context.Context, b *models.Booking) error
	// HasOverlap reports whether an active booking of roomID intersects [checkIn, checkOut).
	HasOverlap(ctx context.Context, roomID string, checkIn, checkOut models.Date, excludeID string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByReference(ctx context.Context, reference string) (*models.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	// ListActiveInRange returns active bookings of roomID that intersect [from, to), ordered by check-in.
	ListActiveInRange(ctx context.Context, roomID string, from, to models.Date) ([]models.Booking, error)
	// DeleteRoomIfIdle removes the room unless an active booking references it. The check and
	// the delete are serialized with InsertIfAvailable on the same room. It returns
	// repository.ErrActiveBookings or repository.ErrNotFound.
	DeleteRoomIfIdle(ctx context.Context, roomID string) error
	// UpdateStatus applies upd only if the stored status still equals expected.
	// It returns repository.ErrStaleStatus when it does not.
	UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, upd models.BookingUpdate) (*models.Booking, error)
}
