package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"hotelbooking/database/repository"
	bookingRepo "hotelbooking/database/repository/booking"
	roomRepo "hotelbooking/database/repository/room"
	userRepo "hotelbooking/database/repository/user"
	"hotelbooking/models"
	"hotelbooking/services/notification"
	"hotelbooking/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookingService is the booking engine consumed by the HTTP layer.
type BookingService interface {
	Quote(ctx context.Context, req QuoteRequest) (models.Pricing, error)
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut models.Date, excludeBookingID string) (bool, error)
	UnavailableDates(ctx context.Context, roomID string, from, to models.Date) ([]models.Date, error)
	CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	GetByReference(ctx context.Context, actor Actor, reference string) (*models.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)
	Stats(ctx context.Context) (*Stats, error)
	Pay(ctx context.Context, actor Actor, bookingID string, req PayRequest) (*models.Booking, *models.Invoice, error)
	Cancel(ctx context.Context, actor Actor, bookingID, password string) (*models.Booking, error)
	Confirm(ctx context.Context, bookingID string) (*models.Booking, error)
	CheckIn(ctx context.Context, bookingID string) (*models.Booking, error)
	CheckOut(ctx context.Context, bookingID string) (*models.Booking, error)
}

// QuoteRequest asks for the price of a stay without booking it.
type QuoteRequest struct {
	RoomID     string      `json:"room_id" binding:"required"`
	CheckIn    models.Date `json:"check_in"`
	CheckOut   models.Date `json:"check_out"`
	RoomsCount int         `json:"rooms_count" binding:"min=0"`
}

// PayRequest selects how a booking is paid.
type PayRequest struct {
	Method          string `json:"payment_method" binding:"required,oneof=card cash"`
	PaymentMethodID string `json:"payment_method_id"`
}

// Stats summarizes the booking book for the admin console.
type Stats struct {
	TotalBookings    int                          `json:"total_bookings"`
	ByStatus         map[models.BookingStatus]int `json:"by_status"`
	ConfirmedRevenue models.Money                 `json:"confirmed_revenue"`
	PendingPayments  int                          `json:"pending_payments"`
	TotalUsers       int                          `json:"total_users"`
	TotalRooms       int                          `json:"total_rooms"`
}

// DefaultBookingService implements BookingService over the repositories.
type DefaultBookingService struct {
	Rooms    roomRepo.RoomRepository
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Notifier notification.Notifier
	Payments PaymentHandler
	Refs     *ReferenceGenerator
	Currency string
	Logger   *zap.Logger
	Now      func() time.Time

	notifications sync.WaitGroup
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

func (s *DefaultBookingService) loadRoom(ctx context.Context, roomID string) (*models.Room, error) {
	room, err := s.Rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room %s: %w", roomID, err)
	}
	if room == nil {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// Quote prices a stay for the room's current nightly rate.
func (s *DefaultBookingService) Quote(ctx context.Context, req QuoteRequest) (models.Pricing, error) {
	if err := ValidateRange(req.CheckIn, req.CheckOut); err != nil {
		return models.Pricing{}, err
	}
	if req.RoomsCount == 0 {
		req.RoomsCount = 1
	}
	room, err := s.loadRoom(ctx, req.RoomID)
	if err != nil {
		return models.Pricing{}, err
	}
	return ComputePricing(room.PricePerNight, req.CheckIn, req.CheckOut, req.RoomsCount)
}

// CreateBooking validates and prices the request, then inserts it through the store's
// atomic availability check. The booking email is sent in the background.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	if err := ValidateRange(req.CheckIn, req.CheckOut); err != nil {
		return nil, err
	}
	if req.RoomsCount == 0 {
		req.RoomsCount = 1
	}
	if req.RoomsCount < 0 {
		return nil, ErrInvalidRoomsCount
	}
	if req.Adults < 1 || req.Children < 0 {
		return nil, ErrInvalidGuests
	}
	status := req.Status
	if status == "" {
		status = models.StatusPending
	}
	if status != models.StatusPending && status != models.StatusConfirmed {
		return nil, ErrInvalidStateTransition
	}

	room, err := s.loadRoom(ctx, req.RoomID)
	if err != nil {
		return nil, err
	}
	if !room.IsAvailable {
		return nil, ErrRoomUnavailable
	}
	if req.Adults+req.Children > room.MaxGuests*req.RoomsCount {
		return nil, ErrInvalidGuests
	}

	pricing, err := ComputePricing(room.PricePerNight, req.CheckIn, req.CheckOut, req.RoomsCount)
	if err != nil {
		return nil, err
	}

	now := s.now()
	b := &models.Booking{
		ID:              uuid.New().String(),
		Reference:       s.Refs.Generate(),
		UserID:          req.UserID,
		RoomID:          room.ID,
		RoomName:        room.Name,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Nights:          pricing.Nights,
		Adults:          req.Adults,
		Children:        req.Children,
		RoomsCount:      req.RoomsCount,
		NetPrice:        pricing.NetPrice,
		TaxAmount:       pricing.TaxAmount,
		TotalPrice:      pricing.TotalPrice,
		SpecialRequests: req.SpecialRequests,
		Status:          status,
		PaymentStatus:   models.PaymentPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if status == models.StatusConfirmed {
		b.PaymentMethod = models.PaymentMethodCash
	}

	if err := s.Bookings.InsertIfAvailable(ctx, b); err != nil {
		switch {
		case errors.Is(err, repository.ErrOverlap):
			return nil, ErrRoomUnavailable
		case errors.Is(err, repository.ErrDuplicateReference):
			return nil, ErrReferenceCollision
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	s.logger().Info("Booking created",
		zap.String("reference", b.Reference),
		zap.String("room", b.RoomID),
		zap.String("check_in", b.CheckIn.String()),
		zap.String("check_out", b.CheckOut.String()),
		zap.String("status", string(b.Status)))

	s.notifyAsync(*b)
	return b, nil
}

// notifyAsync sends the booking notice on its own goroutine. It runs when a booking
// is created and again when it becomes confirmed. Failures are logged only.
func (s *DefaultBookingService) notifyAsync(b models.Booking) {
	if s.Notifier == nil {
		return
	}
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger().Error("Panic while sending booking confirmation", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		var user models.User
		if s.Users != nil {
			u, err := s.Users.GetByID(ctx, b.UserID)
			if err != nil || u == nil {
				s.logger().Warn("Booking confirmation skipped: guest not found",
					zap.String("reference", b.Reference), zap.Error(err))
				return
			}
			user = *u
		}
		if err := s.Notifier.BookingConfirmed(ctx, models.NoticeFor(b, user, s.Currency)); err != nil {
			s.logger().Warn("Booking confirmation failed",
				zap.String("reference", b.Reference), zap.Error(err))
		}
	}()
}

// withdrawAsync tells the notifier the booking is cancelled so scheduled notices
// such as the check-in reminder are dropped. Failures are logged only.
func (s *DefaultBookingService) withdrawAsync(b models.Booking) {
	if s.Notifier == nil {
		return
	}
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()
		defer func() {
			if r := recover(); r != nil {
				s.logger().Error("Panic while withdrawing booking notices", zap.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.Notifier.BookingCancelled(ctx, b.ID); err != nil {
			s.logger().Warn("Failed to withdraw booking notices",
				zap.String("reference", b.Reference), zap.Error(err))
		}
	}()
}

// WaitNotifications blocks until every in-flight confirmation has finished.
func (s *DefaultBookingService) WaitNotifications() {
	s.notifications.Wait()
}

// GetByReference returns the booking when actor owns it or is an admin.
func (s *DefaultBookingService) GetByReference(ctx context.Context, actor Actor, reference string) (*models.Booking, error) {
	b, err := s.Bookings.GetByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", reference, err)
	}
	if !actor.canSee(b) {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

func (s *DefaultBookingService) ListForUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID)
}

func (s *DefaultBookingService) ListAll(ctx context.Context) ([]models.Booking, error) {
	return s.Bookings.ListAll(ctx)
}

// Stats counts bookings per status. Revenue sums bookings that are confirmed or later.
func (s *DefaultBookingService) Stats(ctx context.Context) (*Stats, error) {
	bookings, err := s.Bookings.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	st := &Stats{TotalBookings: len(bookings), ByStatus: make(map[models.BookingStatus]int)}
	for _, b := range bookings {
		st.ByStatus[b.Status]++
		switch b.Status {
		case models.StatusConfirmed, models.StatusCheckedIn, models.StatusCheckedOut:
			st.ConfirmedRevenue += b.TotalPrice
		}
		if b.PaymentStatus == models.PaymentPending && b.Status.IsActive() {
			st.PendingPayments++
		}
	}
	if s.Users != nil {
		users, err := s.Users.GetAll(ctx)
		if err != nil {
			return nil, err
		}
		st.TotalUsers = len(users)
	}
	rooms, err := s.Rooms.List(ctx, models.RoomFilter{})
	if err != nil {
		return nil, err
	}
	st.TotalRooms = len(rooms)
	return st, nil
}

// load resolves ref as a booking id first, then as a booking reference.
func (s *DefaultBookingService) load(ctx context.Context, ref string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, ref)
	if err == nil && b == nil && strings.HasPrefix(strings.ToUpper(ref), referencePrefix+"-") {
		b, err = s.Bookings.GetByReference(ctx, strings.ToUpper(ref))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", ref, err)
	}
	if b == nil {
		return nil, ErrBookingNotFound
	}
	return b, nil
}

// apply validates from -> upd.Status against the state machine and writes upd
// with a compare-and-set on the current status.
func (s *DefaultBookingService) apply(ctx context.Context, b *models.Booking, upd models.BookingUpdate) (*models.Booking, error) {
	if upd.Status != nil {
		if err := Transition(b.Status, *upd.Status); err != nil {
			return nil, err
		}
	}
	updated, err := s.Bookings.UpdateStatus(ctx, b.ID, b.Status, upd)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrStaleStatus):
		return nil, ErrInvalidStateTransition
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrBookingNotFound
	default:
		return nil, fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	s.logger().Info("Booking updated",
		zap.String("reference", updated.Reference),
		zap.String("from", string(b.Status)),
		zap.String("to", string(updated.Status)),
		zap.String("payment", string(updated.PaymentStatus)))

	if b.Status != updated.Status {
		switch updated.Status {
		case models.StatusConfirmed:
			s.notifyAsync(*updated)
		case models.StatusCancelled:
			s.withdrawAsync(*updated)
		}
	}
	return updated, nil
}

func (s *DefaultBookingService) transition(ctx context.Context, id string, to models.BookingStatus) (*models.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.apply(ctx, b, models.BookingUpdate{Status: ptr(to)})
}

// Confirm moves a pending booking to confirmed without payment.
func (s *DefaultBookingService) Confirm(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.StatusConfirmed)
}

func (s *DefaultBookingService) CheckIn(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.StatusCheckedIn)
}

func (s *DefaultBookingService) CheckOut(ctx context.Context, id string) (*models.Booking, error) {
	return s.transition(ctx, id, models.StatusCheckedOut)
}

// Cancel re-verifies actor's password before cancelling. Guests may only cancel their own bookings.
func (s *DefaultBookingService) Cancel(ctx context.Context, actor Actor, id, password string) (*models.Booking, error) {
	if err := s.verifyPassword(ctx, actor.UserID, password); err != nil {
		return nil, err
	}
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.canSee(b) {
		return nil, ErrBookingNotFound
	}
	return s.apply(ctx, b, models.BookingUpdate{Status: ptr(models.StatusCancelled)})
}

func (s *DefaultBookingService) verifyPassword(ctx context.Context, userID, password string) error {
	if password == "" || s.Users == nil {
		return ErrAuthenticationRequired
	}
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to fetch user %s: %w", userID, err)
	}
	if u == nil || !utils.CheckPassword(u.PasswordHash, password) {
		s.logger().Warn("Step-up authentication failed", zap.String("user", userID))
		return ErrAuthenticationRequired
	}
	return nil
}

// Pay charges the booking total. A completed payment confirms a pending booking;
// cash leaves the payment pending until an admin confirms.
func (s *DefaultBookingService) Pay(ctx context.Context, actor Actor, id string, req PayRequest) (*models.Booking, *models.Invoice, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !actor.canSee(b) {
		return nil, nil, ErrBookingNotFound
	}
	if b.PaymentStatus == models.PaymentCompleted {
		return nil, nil, ErrPaymentCompleted
	}
	if b.Status != models.StatusPending && b.Status != models.StatusConfirmed {
		return nil, nil, ErrInvalidStateTransition
	}
	if s.Payments == nil {
		return nil, nil, ErrUnsupportedPayment
	}

	inv, err := s.Payments.ProcessPayment(ctx, models.PaymentRequest{
		UserID:          b.UserID,
		BookingID:       b.ID,
		Reference:       b.Reference,
		Amount:          b.TotalPrice,
		Currency:        s.Currency,
		Method:          req.Method,
		PaymentMethodID: req.PaymentMethodID,
	})
	if err != nil {
		return nil, nil, err
	}

	upd := models.BookingUpdate{
		PaymentMethod:    ptr(inv.Method),
		PaymentReference: ptr(inv.PaymentID),
	}
	if inv.Status == models.PaymentCompleted {
		upd.PaymentStatus = ptr(models.PaymentCompleted)
		if b.Status == models.StatusPending {
			upd.Status = ptr(models.StatusConfirmed)
		}
	}
	updated, err := s.apply(ctx, b, upd)
	if err != nil {
		s.logger().Error("Payment taken but booking not updated",
			zap.String("reference", b.Reference),
			zap.String("payment_id", inv.PaymentID),
			zap.Error(err))
		return nil, inv, err
	}
	return updated, inv, nil
}
