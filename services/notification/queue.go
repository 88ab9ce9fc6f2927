package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbooking/models"
	"hotelbooking/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the subset of *asynq.Client the notifier uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dequeuer is the subset of *asynq.Inspector used to withdraw scheduled tasks.
type Dequeuer interface {
	DeleteTask(queue, id string) error
}

// QueueNotifier hands notices to the background worker through asynq.
type QueueNotifier struct {
	client    Enqueuer
	inspector Dequeuer
	logger    *zap.Logger
	now       func() time.Time
}

// NewQueueNotifier builds a notifier. inspector may be nil, in which case
// cancelled bookings are only filtered by the worker.
func NewQueueNotifier(client Enqueuer, inspector Dequeuer, logger *zap.Logger) *QueueNotifier {
	return &QueueNotifier{client: client, inspector: inspector, logger: logger, now: time.Now}
}

// BookingConfirmed enqueues the confirmation email and, when check-in is far enough
// ahead, a reminder for the day before.
func (q *QueueNotifier) BookingConfirmed(ctx context.Context, notice models.BookingNotice) error {
	task, opts, err := tasks.NewConfirmationTask(notice)
	if err != nil {
		return fmt.Errorf("failed to build confirmation task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("failed to enqueue confirmation for %s: %w", notice.Reference, err)
	}

	fireAt := tasks.ReminderTime(notice.CheckIn)
	if !fireAt.After(q.now()) {
		return nil
	}
	task, opts, err = tasks.NewReminderTask(notice, fireAt)
	if err != nil {
		return fmt.Errorf("failed to build reminder task: %w", err)
	}
	if _, err := q.client.EnqueueContext(ctx, task, opts...); err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		q.logger.Warn("Failed to schedule check-in reminder", zap.String("reference", notice.Reference), zap.Error(err))
	}
	return nil
}

// BookingCancelled deletes the pending check-in reminder of the booking. A reminder
// that was never scheduled or has already run is not an error.
func (q *QueueNotifier) BookingCancelled(_ context.Context, bookingID string) error {
	if q.inspector == nil {
		return nil
	}
	err := q.inspector.DeleteTask(tasks.QueueDefault, tasks.ReminderTaskID(bookingID))
	switch {
	case err == nil:
		q.logger.Info("Check-in reminder withdrawn", zap.String("booking", bookingID))
		return nil
	case errors.Is(err, asynq.ErrTaskNotFound), errors.Is(err, asynq.ErrQueueNotFound):
		return nil
	}
	return fmt.Errorf("failed to withdraw reminder for %s: %w", bookingID, err)
}

// LogNotifier only logs notices. It is used when neither SMTP nor a queue is configured.
type LogNotifier struct {
	Logger *zap.Logger
}

func (l LogNotifier) BookingConfirmed(_ context.Context, notice models.BookingNotice) error {
	l.Logger.Info("Booking confirmation (not delivered)",
		zap.String("reference", notice.Reference),
		zap.String("to", notice.Email))
	return nil
}

func (l LogNotifier) BookingCancelled(_ context.Context, bookingID string) error {
	l.Logger.Info("Booking cancelled", zap.String("booking", bookingID))
	return nil
}

func (l LogNotifier) Send(ctx context.Context, notice models.BookingNotice) error {
	return l.BookingConfirmed(ctx, notice)
}
