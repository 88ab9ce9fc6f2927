package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotelbooking/models"
	"hotelbooking/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type fakeSender struct {
	sent []models.BookingNotice
	err  error
}

func (f *fakeSender) Send(_ context.Context, n models.BookingNotice) error {
	f.sent = append(f.sent, n)
	return f.err
}

func TestHandleNoticeTaskDelivers(t *testing.T) {
	sender := &fakeSender{}
	handler := HandleNoticeTask(sender, nil, zap.NewNop())

	task, _, err := tasks.NewConfirmationTask(models.BookingNotice{
		Reference: "HTL-XYZ-0001",
		Email:     "guest@example.com",
		CheckIn:   models.MustParseDate("2026-07-01"),
		CheckOut:  models.MustParseDate("2026-07-03"),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := handler(context.Background(), task); err != nil {
		t.Fatal(err)
	}
	if len(sender.sent) != 1 || sender.sent[0].Kind != models.NoticeConfirmation || sender.sent[0].Reference != "HTL-XYZ-0001" {
		t.Fatalf("sent %+v", sender.sent)
	}
}

func TestHandleNoticeTaskRetriesSendFailure(t *testing.T) {
	boom := errors.New("smtp unavailable")
	handler := HandleNoticeTask(&fakeSender{err: boom}, nil, zap.NewNop())
	task, _, _ := tasks.NewConfirmationTask(models.BookingNotice{Reference: "HTL-XYZ-0002"})

	err := handler(context.Background(), task)
	if !errors.Is(err, boom) || errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("send failure should be retried, got %v", err)
	}
}

func TestHandleNoticeTaskSkipsBadPayload(t *testing.T) {
	sender := &fakeSender{}
	handler := HandleNoticeTask(sender, nil, zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(tasks.TypeCheckInReminder, []byte("{not json")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("got %v, want SkipRetry", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("malformed payload must not be sent")
	}
}

type fakeBookings map[string]*models.Booking

func (f fakeBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	return f[id], nil
}

func TestHandleNoticeTaskDropsReminderOfInactiveBooking(t *testing.T) {
	bookings := fakeBookings{
		"b-live":      {ID: "b-live", Status: models.StatusConfirmed},
		"b-cancelled": {ID: "b-cancelled", Status: models.StatusCancelled},
	}
	sender := &fakeSender{}
	handler := HandleNoticeTask(sender, bookings, zap.NewNop())

	fireAt := time.Date(2030, 4, 30, 9, 0, 0, 0, time.UTC)
	for _, tc := range []struct {
		id       string
		wantSent bool
	}{
		{"b-live", true},
		{"b-cancelled", false},
		{"b-gone", false},
	} {
		sender.sent = nil
		task, _, err := tasks.NewReminderTask(models.BookingNotice{BookingID: tc.id, Reference: "HTL-" + tc.id}, fireAt)
		if err != nil {
			t.Fatal(err)
		}
		err = handler(context.Background(), task)
		if tc.wantSent {
			if err != nil || len(sender.sent) != 1 {
				t.Errorf("%s: err=%v sent=%d, want delivered", tc.id, err, len(sender.sent))
			}
			continue
		}
		if !errors.Is(err, asynq.SkipRetry) || len(sender.sent) != 0 {
			t.Errorf("%s: err=%v sent=%d, want dropped without retry", tc.id, err, len(sender.sent))
		}
	}

	// Confirmations are never filtered by status.
	sender.sent = nil
	task, _, _ := tasks.NewConfirmationTask(models.BookingNotice{BookingID: "b-cancelled"})
	if err := handler(context.Background(), task); err != nil || len(sender.sent) != 1 {
		t.Fatalf("confirmation: err=%v sent=%d", err, len(sender.sent))
	}
}
