package notification

import (
	"context"

	"hotelbooking/models"
)

// Notifier delivers booking notices to guests. Callers treat delivery as best effort.
type Notifier interface {
	BookingConfirmed(ctx context.Context, notice models.BookingNotice) error
	// BookingCancelled withdraws anything still scheduled for the booking.
	BookingCancelled(ctx context.Context, bookingID string) error
}

// Sender delivers one rendered notice synchronously.
type Sender interface {
	Send(ctx context.Context, notice models.BookingNotice) error
}
