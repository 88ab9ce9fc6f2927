// Package repository holds the errors shared by every store implementation.
package repository

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrDuplicateKey       = errors.New("record with the same unique key already exists")
	ErrOverlap            = errors.New("date range overlaps an active booking")
	ErrDuplicateReference = errors.New("booking reference already exists")
	ErrStaleStatus        = errors.New("booking status changed concurrently")
	ErrActiveBookings     = errors.New("room has active bookings")
)

// DefaultTimeout bounds a single store round trip when the caller has no deadline of its own.
const DefaultTimeout = 5 * time.Second

// WithTimeout derives a context with DefaultTimeout unless ctx already carries a deadline.
func WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, DefaultTimeout)
}
