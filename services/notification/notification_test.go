package notification

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"hotelbooking/models"
	"hotelbooking/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

type enqueued struct {
	task *asynq.Task
	opts []asynq.Option
}

type fakeEnqueuer struct {
	calls []enqueued
	errs  map[string]error
}

func (f *fakeEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	f.calls = append(f.calls, enqueued{task: task, opts: opts})
	if err := f.errs[task.Type()]; err != nil {
		return nil, err
	}
	return &asynq.TaskInfo{ID: "t", Type: task.Type()}, nil
}

func sampleNotice() models.BookingNotice {
	return models.BookingNotice{
		BookingID:  "b-1",
		Reference:  "HTL-ABC-1234",
		Email:      "guest@example.com",
		GuestName:  "Ada Lovelace",
		RoomName:   "Deluxe Double",
		CheckIn:    models.MustParseDate("2026-06-10"),
		CheckOut:   models.MustParseDate("2026-06-12"),
		Nights:     2,
		TotalPrice: 23600,
		Currency:   "USD",
	}
}

func optionValue(opts []asynq.Option, typ asynq.OptionType) (any, bool) {
	for _, o := range opts {
		if o.Type() == typ {
			return o.Value(), true
		}
	}
	return nil, false
}

func TestQueueNotifierSchedulesReminder(t *testing.T) {
	fake := &fakeEnqueuer{}
	q := NewQueueNotifier(fake, nil, zap.NewNop())
	q.now = func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }

	if err := q.BookingConfirmed(context.Background(), sampleNotice()); err != nil {
		t.Fatal(err)
	}
	if len(fake.calls) != 2 {
		t.Fatalf("enqueued %d tasks, want 2", len(fake.calls))
	}
	if fake.calls[0].task.Type() != tasks.TypeBookingConfirmation {
		t.Fatalf("first task %q", fake.calls[0].task.Type())
	}
	reminder := fake.calls[1]
	if reminder.task.Type() != tasks.TypeCheckInReminder {
		t.Fatalf("second task %q", reminder.task.Type())
	}
	at, ok := optionValue(reminder.opts, asynq.ProcessAtOpt)
	if !ok || !at.(time.Time).Equal(time.Date(2026, 6, 9, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("reminder scheduled at %v", at)
	}
	if id, _ := optionValue(reminder.opts, asynq.TaskIDOpt); id != "reminder:b-1" {
		t.Fatalf("reminder task id %v", id)
	}

	n, err := tasks.DecodeNotice(reminder.task)
	if err != nil {
		t.Fatal(err)
	}
	if n.Kind != models.NoticeReminder || n.Reference != "HTL-ABC-1234" || n.CheckIn.String() != "2026-06-10" {
		t.Fatalf("decoded reminder %+v", n)
	}
}

func TestQueueNotifierSkipsPastReminder(t *testing.T) {
	fake := &fakeEnqueuer{}
	q := NewQueueNotifier(fake, nil, zap.NewNop())
	q.now = func() time.Time { return time.Date(2026, 6, 9, 10, 0, 0, 0, time.UTC) }

	if err := q.BookingConfirmed(context.Background(), sampleNotice()); err != nil {
		t.Fatal(err)
	}
	if len(fake.calls) != 1 {
		t.Fatalf("enqueued %d tasks, want only the confirmation", len(fake.calls))
	}
}

func TestQueueNotifierErrors(t *testing.T) {
	boom := errors.New("redis down")
	fake := &fakeEnqueuer{errs: map[string]error{tasks.TypeBookingConfirmation: boom}}
	q := NewQueueNotifier(fake, nil, zap.NewNop())
	if err := q.BookingConfirmed(context.Background(), sampleNotice()); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped enqueue error", err)
	}

	fake = &fakeEnqueuer{errs: map[string]error{tasks.TypeCheckInReminder: asynq.ErrTaskIDConflict}}
	q = NewQueueNotifier(fake, nil, zap.NewNop())
	q.now = func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	if err := q.BookingConfirmed(context.Background(), sampleNotice()); err != nil {
		t.Fatalf("reminder conflict must not fail the confirmation: %v", err)
	}
}

type fakeInspector struct {
	deleted []string
	err     error
}

func (f *fakeInspector) DeleteTask(queue, id string) error {
	f.deleted = append(f.deleted, queue+"/"+id)
	return f.err
}

func TestQueueNotifierWithdrawsReminderOnCancel(t *testing.T) {
	ins := &fakeInspector{}
	q := NewQueueNotifier(&fakeEnqueuer{}, ins, zap.NewNop())
	if err := q.BookingCancelled(context.Background(), "b-1"); err != nil {
		t.Fatal(err)
	}
	if len(ins.deleted) != 1 || ins.deleted[0] != "default/reminder:b-1" {
		t.Fatalf("deleted %v", ins.deleted)
	}

	for _, err := range []error{asynq.ErrTaskNotFound, asynq.ErrQueueNotFound} {
		q = NewQueueNotifier(&fakeEnqueuer{}, &fakeInspector{err: err}, zap.NewNop())
		if got := q.BookingCancelled(context.Background(), "b-1"); got != nil {
			t.Errorf("%v: got %v, want nil for a reminder that is not scheduled", err, got)
		}
	}

	boom := errors.New("redis down")
	q = NewQueueNotifier(&fakeEnqueuer{}, &fakeInspector{err: boom}, zap.NewNop())
	if err := q.BookingCancelled(context.Background(), "b-1"); !errors.Is(err, boom) {
		t.Fatalf("got %v, want wrapped inspector error", err)
	}

	q = NewQueueNotifier(&fakeEnqueuer{}, nil, zap.NewNop())
	if err := q.BookingCancelled(context.Background(), "b-1"); err != nil {
		t.Fatalf("without an inspector: %v", err)
	}
}

func TestRender(t *testing.T) {
	n := sampleNotice()
	subject, body := Render(n)
	if subject != "Booking received - HTL-ABC-1234" {
		t.Fatalf("subject %q", subject)
	}
	for _, want := range []string{
		"Dear Ada Lovelace,",
		"Reference: HTL-ABC-1234",
		"Room: Deluxe Double",
		"Check-in: 2026-06-10",
		"Check-out: 2026-06-12",
		"Nights: 2",
		"Total: 236.00 USD",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}

	n.Status = models.StatusConfirmed
	if subject, _ = Render(n); subject != "Booking confirmed - HTL-ABC-1234" {
		t.Fatalf("confirmed subject %q", subject)
	}

	n.Kind = models.NoticeReminder
	n.GuestName = ""
	subject, body = Render(n)
	if !strings.HasPrefix(subject, "Your stay starts tomorrow") || !strings.Contains(body, "Dear Guest,") {
		t.Fatalf("reminder render: %q\n%s", subject, body)
	}
}

func TestMailNotifierRequiresRecipient(t *testing.T) {
	m := NewMailNotifier(MailConfig{Host: "localhost", Port: 2525, From: "noreply@hotel.test"}, zap.NewNop())
	n := sampleNotice()
	n.Email = ""
	if err := m.Send(context.Background(), n); err == nil {
		t.Fatal("expected error for missing recipient")
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Send(ctx, sampleNotice()); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
}
