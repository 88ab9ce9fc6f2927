package bookingRepo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"
)

type stubRooms map[string]models.Room

func (s stubRooms) GetByID(_ context.Context, id string) (*models.Room, error) {
	r, ok := s[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s stubRooms) Delete(_ context.Context, id string) error {
	if _, ok := s[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s, id)
	return nil
}

func newBooking(id, ref, roomID, in, out string, status models.BookingStatus) *models.Booking {
	return &models.Booking{
		ID:        id,
		Reference: ref,
		UserID:    "u1",
		RoomID:    roomID,
		CheckIn:   models.MustParseDate(in),
		CheckOut:  models.MustParseDate(out),
		Status:    status,
		CreatedAt: time.Now().UTC(),
	}
}

func TestMemoryInsertIfAvailable(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo(stubRooms{"r1": {ID: "r1"}, "r2": {ID: "r2"}})

	if err := repo.InsertIfAvailable(ctx, newBooking("b1", "HTL-A", "r1", "2026-01-01", "2026-01-05", models.StatusPending)); err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		b    *models.Booking
		want error
	}{
		{"overlap", newBooking("b2", "HTL-B", "r1", "2026-01-04", "2026-01-06", models.StatusPending), repository.ErrOverlap},
		{"duplicate reference", newBooking("b3", "HTL-A", "r2", "2026-01-01", "2026-01-02", models.StatusPending), repository.ErrDuplicateReference},
		{"unknown room", newBooking("b4", "HTL-C", "r9", "2026-01-01", "2026-01-02", models.StatusPending), repository.ErrNotFound},
		{"back to back", newBooking("b5", "HTL-D", "r1", "2026-01-05", "2026-01-07", models.StatusPending), nil},
		{"other room", newBooking("b6", "HTL-E", "r2", "2026-01-01", "2026-01-05", models.StatusPending), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := repo.InsertIfAvailable(ctx, tc.b)
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestMemoryOverlapIgnoresInactiveAndExcluded(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo(nil)
	in, out := models.MustParseDate("2026-02-01"), models.MustParseDate("2026-02-03")

	if err := repo.InsertIfAvailable(ctx, newBooking("b1", "HTL-A", "r1", "2026-02-01", "2026-02-03", models.StatusPending)); err != nil {
		t.Fatal(err)
	}
	if ok, _ := repo.HasOverlap(ctx, "r1", in, out, ""); !ok {
		t.Fatal("pending booking should overlap")
	}
	if ok, _ := repo.HasOverlap(ctx, "r1", in, out, "b1"); ok {
		t.Fatal("excluded booking should be ignored")
	}

	if _, err := repo.UpdateStatus(ctx, "b1", models.StatusPending, models.BookingUpdate{Status: ptr(models.StatusCancelled)}); err != nil {
		t.Fatal(err)
	}
	if ok, _ := repo.HasOverlap(ctx, "r1", in, out, ""); ok {
		t.Fatal("cancelled booking should not overlap")
	}
}

func TestMemoryDeleteRoomIfIdle(t *testing.T) {
	ctx := context.Background()
	rooms := stubRooms{"r1": {ID: "r1"}}
	repo := NewMemoryBookingRepo(rooms)

	if err := repo.InsertIfAvailable(ctx, newBooking("b1", "HTL-A", "r1", "2026-02-01", "2026-02-03", models.StatusConfirmed)); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteRoomIfIdle(ctx, "r1"); !errors.Is(err, repository.ErrActiveBookings) {
		t.Fatalf("got %v, want ErrActiveBookings", err)
	}
	if _, ok := rooms["r1"]; !ok {
		t.Fatal("room deleted despite an active booking")
	}

	if _, err := repo.UpdateStatus(ctx, "b1", models.StatusConfirmed, models.BookingUpdate{Status: ptr(models.StatusCancelled)}); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteRoomIfIdle(ctx, "r1"); err != nil {
		t.Fatal(err)
	}
	if err := repo.DeleteRoomIfIdle(ctx, "r1"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("second delete: got %v, want ErrNotFound", err)
	}
	err := repo.InsertIfAvailable(ctx, newBooking("b2", "HTL-B", "r1", "2026-03-01", "2026-03-03", models.StatusPending))
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("booking a deleted room: got %v, want ErrNotFound", err)
	}
}

func TestMemoryDeleteRoomRacesInsert(t *testing.T) {
	ctx := context.Background()
	for i := 0; i < 50; i++ {
		rooms := stubRooms{"r1": {ID: "r1"}}
		repo := NewMemoryBookingRepo(rooms)

		var wg sync.WaitGroup
		var insertErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			insertErr = repo.InsertIfAvailable(ctx, newBooking("b1", "HTL-A", "r1", "2026-02-01", "2026-02-03", models.StatusPending))
		}()
		go func() {
			defer wg.Done()
			deleteErr = repo.DeleteRoomIfIdle(ctx, "r1")
		}()
		wg.Wait()

		// Either the booking landed and the delete was refused, or the room went first.
		switch {
		case insertErr == nil && errors.Is(deleteErr, repository.ErrActiveBookings):
		case errors.Is(insertErr, repository.ErrNotFound) && deleteErr == nil:
		default:
			t.Fatalf("run %d: insert=%v delete=%v", i, insertErr, deleteErr)
		}
	}
}

func TestMemoryUpdateStatusCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo(nil)
	if err := repo.InsertIfAvailable(ctx, newBooking("b1", "HTL-A", "r1", "2026-03-01", "2026-03-02", models.StatusPending)); err != nil {
		t.Fatal(err)
	}

	paid := models.PaymentCompleted
	got, err := repo.UpdateStatus(ctx, "b1", models.StatusPending, models.BookingUpdate{
		Status:        ptr(models.StatusConfirmed),
		PaymentStatus: &paid,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.StatusConfirmed || got.PaymentStatus != models.PaymentCompleted {
		t.Fatalf("update not applied: %+v", got)
	}

	if _, err := repo.UpdateStatus(ctx, "b1", models.StatusPending, models.BookingUpdate{Status: ptr(models.StatusCancelled)}); !errors.Is(err, repository.ErrStaleStatus) {
		t.Fatalf("got %v, want ErrStaleStatus", err)
	}
	if _, err := repo.UpdateStatus(ctx, "nope", models.StatusPending, models.BookingUpdate{}); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	stored, _ := repo.GetByReference(ctx, "HTL-A")
	if stored == nil || stored.Status != models.StatusConfirmed {
		t.Fatalf("stored = %+v", stored)
	}
}

func TestMemoryListing(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryBookingRepo(nil)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, tc := range []struct{ id, user, in, out string }{
		{"b1", "u1", "2026-04-10", "2026-04-12"},
		{"b2", "u2", "2026-04-01", "2026-04-03"},
		{"b3", "u1", "2026-04-05", "2026-04-07"},
	} {
		b := newBooking(tc.id, "HTL-"+tc.id, "r1", tc.in, tc.out, models.StatusConfirmed)
		b.UserID = tc.user
		b.CreatedAt = base.Add(time.Duration(i) * time.Hour)
		if err := repo.InsertIfAvailable(ctx, b); err != nil {
			t.Fatal(err)
		}
	}

	mine, _ := repo.ListByUser(ctx, "u1")
	if len(mine) != 2 || mine[0].ID != "b3" || mine[1].ID != "b1" {
		t.Fatalf("ListByUser not newest first: %+v", mine)
	}

	inRange, _ := repo.ListActiveInRange(ctx, "r1", models.MustParseDate("2026-04-02"), models.MustParseDate("2026-04-11"))
	if len(inRange) != 3 || inRange[0].ID != "b2" || inRange[2].ID != "b1" {
		t.Fatalf("ListActiveInRange not by check-in: %+v", inRange)
	}

	edge, _ := repo.ListActiveInRange(ctx, "r1", models.MustParseDate("2026-04-03"), models.MustParseDate("2026-04-05"))
	if len(edge) != 0 {
		t.Fatalf("touching ranges should not be listed: %+v", edge)
	}
}

func ptr[T any](v T) *T { return &v }
