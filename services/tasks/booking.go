package tasks

import (
	"encoding/json"
	"time"

	"hotelbooking/models"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmation = "booking:confirmation"
	TypeCheckInReminder     = "booking:reminder"

	// QueueDefault is the asynq queue every booking task is enqueued on.
	QueueDefault = "default"
)

// NewConfirmationTask wraps a confirmation notice for immediate delivery.
func NewConfirmationTask(notice models.BookingNotice) (*asynq.Task, []asynq.Option, error) {
	notice.Kind = models.NoticeConfirmation
	b, err := json.Marshal(notice)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingConfirmation, b)
	opts := []asynq.Option{asynq.MaxRetry(5), asynq.Timeout(30 * time.Second)}
	return task, opts, nil
}

// NewReminderTask schedules a check-in reminder to fire at fireAt. The task id is derived
// from the booking so re-enqueueing the same booking is rejected by the queue.
func NewReminderTask(notice models.BookingNotice, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	notice.Kind = models.NoticeReminder
	b, err := json.Marshal(notice)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeCheckInReminder, b)
	opts := []asynq.Option{
		asynq.ProcessAt(fireAt),
		asynq.TaskID(ReminderTaskID(notice.BookingID)),
		asynq.MaxRetry(3),
	}
	return task, opts, nil
}

// ReminderTaskID identifies the reminder of a booking in the queue.
func ReminderTaskID(bookingID string) string {
	return "reminder:" + bookingID
}

// ReminderTime is 09:00 UTC on the day before check-in.
func ReminderTime(checkIn models.Date) time.Time {
	return checkIn.AddDays(-1).Time.Add(9 * time.Hour)
}

// DecodeNotice reads the payload of either task type.
func DecodeNotice(task *asynq.Task) (models.BookingNotice, error) {
	var n models.BookingNotice
	err := json.Unmarshal(task.Payload(), &n)
	return n, err
}
