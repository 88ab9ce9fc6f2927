package booking

import (
	"context"
	"fmt"

	"hotelbooking/models"
)

// Overlaps reports whether the half-open ranges [aStart, aEnd) and [bStart, bEnd) share a day.
func Overlaps(aStart, aEnd, bStart, bEnd models.Date) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// ValidateRange rejects empty and inverted stays.
func ValidateRange(checkIn, checkOut models.Date) error {
	if checkIn.IsZero() || checkOut.IsZero() || !checkIn.Before(checkOut) {
		return ErrInvalidDateRange
	}
	return nil
}

// IsAvailable reports whether roomID can be booked for [checkIn, checkOut).
// excludeBookingID, when set, is ignored in the overlap query.
func (s *DefaultBookingService) IsAvailable(ctx context.Context, roomID string, checkIn, checkOut models.Date, excludeBookingID string) (bool, error) {
	if err := ValidateRange(checkIn, checkOut); err != nil {
		return false, err
	}
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return false, fmt.Errorf("failed to fetch room %s: %w", roomID, err)
	}
	if room == nil {
		return false, ErrRoomNotFound
	}
	if !room.IsAvailable {
		return false, nil
	}
	overlap, err := s.Bookings.HasOverlap(ctx, roomID, checkIn, checkOut, excludeBookingID)
	if err != nil {
		return false, fmt.Errorf("overlap query failed: %w", err)
	}
	return !overlap, nil
}

// UnavailableDates lists every night in [from, to) that is held by an active booking of roomID.
func (s *DefaultBookingService) UnavailableDates(ctx context.Context, roomID string, from, to models.Date) ([]models.Date, error) {
	if err := ValidateRange(from, to); err != nil {
		return nil, err
	}
	active, err := s.Bookings.ListActiveInRange(ctx, roomID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings for room %s: %w", roomID, err)
	}
	seen := make(map[string]models.Date)
	for _, b := range active {
		for d := b.CheckIn; d.Before(b.CheckOut); d = d.AddDays(1) {
			if d.Before(from) || !d.Before(to) {
				continue
			}
			seen[d.String()] = d
		}
	}
	dates := make([]models.Date, 0, len(seen))
	for _, d := range seen {
		dates = append(dates, d)
	}
	sortDates(dates)
	return dates, nil
}
