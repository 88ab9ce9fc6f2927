package room

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"hotelbooking/database/repository"
	bookingRepo "hotelbooking/database/repository/booking"
	roomRepo "hotelbooking/database/repository/room"
	"hotelbooking/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrRoomNotFound     = errors.New("room not found")
	ErrSlugTaken        = errors.New("a room with this slug already exists")
	ErrRoomHasBookings  = errors.New("room has active bookings")
	ErrInvalidRoom      = errors.New("invalid room")
	ErrEmptyUpdate      = errors.New("no fields to update")
	ErrInvalidDateRange = errors.New("check-out must be after check-in")
)

// CalendarWindow is the default span of the availability calendar.
const CalendarWindow = 180

// Availability is the part of the booking engine the catalog depends on.
type Availability interface {
	IsAvailable(ctx context.Context, roomID string, checkIn, checkOut models.Date, excludeBookingID string) (bool, error)
	UnavailableDates(ctx context.Context, roomID string, from, to models.Date) ([]models.Date, error)
}

type RoomService interface {
	List(ctx context.Context, filter models.RoomFilter, stay *Stay) ([]models.Room, error)
	Get(ctx context.Context, idOrSlug string) (*models.Room, error)
	Calendar(ctx context.Context, idOrSlug string, from, to models.Date) (*Calendar, error)
	Create(ctx context.Context, r models.Room) (*models.Room, error)
	Update(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error)
	Delete(ctx context.Context, id string) error
}

// Stay narrows a listing to rooms free for [CheckIn, CheckOut).
type Stay struct {
	CheckIn  models.Date
	CheckOut models.Date
}

// Calendar lists the nights a room cannot be booked.
type Calendar struct {
	RoomID           string        `json:"room_id"`
	From             models.Date   `json:"from"`
	To               models.Date   `json:"to"`
	UnavailableDates []models.Date `json:"unavailable_dates"`
}

// DefaultRoomService implements RoomService.
type DefaultRoomService struct {
	Repo         roomRepo.RoomRepository
	Bookings     bookingRepo.BookingRepository
	Availability Availability
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultRoomService) today() models.Date {
	if s.Now != nil {
		return models.DateOf(s.Now())
	}
	return models.DateOf(time.Now())
}

func (s *DefaultRoomService) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

// List applies filter in the store, then drops rooms that are booked during stay.
func (s *DefaultRoomService) List(ctx context.Context, filter models.RoomFilter, stay *Stay) ([]models.Room, error) {
	rooms, err := s.Repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if stay == nil {
		return rooms, nil
	}
	if !stay.CheckIn.Before(stay.CheckOut) {
		return nil, ErrInvalidDateRange
	}
	free := rooms[:0]
	for _, r := range rooms {
		ok, err := s.Availability.IsAvailable(ctx, r.ID, stay.CheckIn, stay.CheckOut, "")
		if err != nil {
			return nil, err
		}
		if ok {
			free = append(free, r)
		}
	}
	return free, nil
}

// Get resolves a room by slug first, then by id.
func (s *DefaultRoomService) Get(ctx context.Context, idOrSlug string) (*models.Room, error) {
	r, err := s.Repo.GetBySlug(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if r == nil {
		if r, err = s.Repo.GetByID(ctx, idOrSlug); err != nil {
			return nil, err
		}
	}
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Calendar defaults the window to today .. today+CalendarWindow when from or to is zero.
func (s *DefaultRoomService) Calendar(ctx context.Context, idOrSlug string, from, to models.Date) (*Calendar, error) {
	r, err := s.Get(ctx, idOrSlug)
	if err != nil {
		return nil, err
	}
	if from.IsZero() {
		from = s.today()
	}
	if to.IsZero() {
		to = from.AddDays(CalendarWindow)
	}
	if !from.Before(to) {
		return nil, ErrInvalidDateRange
	}
	dates, err := s.Availability.UnavailableDates(ctx, r.ID, from, to)
	if err != nil {
		return nil, err
	}
	return &Calendar{RoomID: r.ID, From: from, To: to, UnavailableDates: dates}, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases name and joins its words with dashes.
func Slugify(name string) string {
	return strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(name), "-"), "-")
}

func validate(r models.Room) error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRoom)
	case r.PricePerNight < 0:
		return fmt.Errorf("%w: price_per_night must not be negative", ErrInvalidRoom)
	case r.MaxGuests < 1:
		return fmt.Errorf("%w: max_guests must be at least 1", ErrInvalidRoom)
	}
	return nil
}

func (s *DefaultRoomService) Create(ctx context.Context, r models.Room) (*models.Room, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	r.ID = uuid.New().String()
	if r.Slug == "" {
		r.Slug = Slugify(r.Name)
	}
	if r.Amenities == nil {
		r.Amenities = []string{}
	}
	if r.Images == nil {
		r.Images = []string{}
	}
	if err := s.Repo.Create(ctx, &r); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.log().Info("Room created", zap.String("room", r.ID), zap.String("slug", r.Slug))
	return &r, nil
}

func (s *DefaultRoomService) Update(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	if upd.Empty() {
		return nil, ErrEmptyUpdate
	}
	current, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrRoomNotFound
	}
	preview := *current
	upd.Apply(&preview)
	if err := validate(preview); err != nil {
		return nil, err
	}

	r, err := s.Repo.Update(ctx, id, upd)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return nil, ErrRoomNotFound
	case errors.Is(err, repository.ErrDuplicateKey):
		return nil, ErrSlugTaken
	case err != nil:
		return nil, err
	}
	return r, nil
}

// Delete refuses while pending, confirmed or checked-in bookings reference the room.
// The store checks and deletes atomically with respect to new bookings.
func (s *DefaultRoomService) Delete(ctx context.Context, id string) error {
	err := s.Bookings.DeleteRoomIfIdle(ctx, id)
	switch {
	case errors.Is(err, repository.ErrActiveBookings):
		return ErrRoomHasBookings
	case errors.Is(err, repository.ErrNotFound):
		return ErrRoomNotFound
	case err != nil:
		return err
	}
	s.log().Info("Room deleted", zap.String("room", id))
	return nil
}
