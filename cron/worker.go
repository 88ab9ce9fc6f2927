package cron

import (
	"context"
	"fmt"
	"time"

	"hotelbooking/models"
	"hotelbooking/services/notification"
	"hotelbooking/services/tasks"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker runs the asynq server that delivers booking emails.
type Worker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	redis  asynq.RedisClientOpt
	logger *zap.Logger
	stop   chan struct{}
}

// BookingLookup reads the current state of a booking before a reminder goes out.
type BookingLookup interface {
	GetByID(ctx context.Context, id string) (*models.Booking, error)
}

// NewNotificationWorker wires confirmation and reminder tasks to sender.
func NewNotificationWorker(redisOpts asynq.RedisClientOpt, sender notification.Sender, bookings BookingLookup, logger *zap.Logger) *Worker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				tasks.QueueDefault: 1,
			},
			Logger: logger.Sugar(),
		},
	)

	mux := asynq.NewServeMux()
	handler := HandleNoticeTask(sender, bookings, logger)
	mux.HandleFunc(tasks.TypeBookingConfirmation, handler)
	mux.HandleFunc(tasks.TypeCheckInReminder, handler)

	return &Worker{srv: srv, mux: mux, redis: redisOpts, logger: logger, stop: make(chan struct{})}
}

// Start runs the worker in the background, retrying startup with backoff.
func (w *Worker) Start() {
	go w.monitorRedisConnection()

	go func() {
		w.logger.Info("Starting notification worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := w.srv.Start(w.mux)
			if err == nil {
				return
			}
			w.logger.Warn("Notification worker failed to start",
				zap.Int("attempt", attempts), zap.Int("max", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				w.logger.Error("Notification worker gave up; emails will stay queued")
				return
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
}

// Shutdown stops accepting tasks and waits for in-flight ones.
func (w *Worker) Shutdown() {
	close(w.stop)
	w.srv.Shutdown()
}

// HandleNoticeTask decodes a notice and sends it. A malformed payload is dropped
// without retry. When bookings is set, reminders of bookings that are no longer
// active are dropped too.
func HandleNoticeTask(sender notification.Sender, bookings BookingLookup, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		notice, err := tasks.DecodeNotice(task)
		if err != nil {
			logger.Error("Invalid notification payload", zap.String("type", task.Type()), zap.Error(err))
			return fmt.Errorf("decode %s: %v: %w", task.Type(), err, asynq.SkipRetry)
		}
		if notice.Kind == models.NoticeReminder && bookings != nil {
			b, err := bookings.GetByID(ctx, notice.BookingID)
			if err != nil {
				return fmt.Errorf("lookup booking %s: %w", notice.BookingID, err)
			}
			if b == nil || !b.Status.IsActive() {
				logger.Info("Reminder dropped for inactive booking", zap.String("reference", notice.Reference))
				return fmt.Errorf("booking %s is no longer active: %w", notice.Reference, asynq.SkipRetry)
			}
		}
		if err := sender.Send(ctx, notice); err != nil {
			logger.Warn("Failed to deliver booking email", zap.String("reference", notice.Reference), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue Redis periodically to surface outages in the logs.
func (w *Worker) monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     w.redis.Addr,
		Password: w.redis.Password,
		DB:       w.redis.DB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-w.stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := client.Ping(ctx).Err(); err != nil {
				w.logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
			cancel()
		}
	}
}
