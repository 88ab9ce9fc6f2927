package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	StatusPending    BookingStatus = "pending"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCheckedIn  BookingStatus = "checked_in"
	StatusCheckedOut BookingStatus = "checked_out"
	StatusCancelled  BookingStatus = "cancelled"
)

// ActiveStatuses are the statuses that hold a room for their date range.
var ActiveStatuses = []BookingStatus{StatusPending, StatusConfirmed, StatusCheckedIn}

// IsActive reports whether a booking in this status occupies its room.
func (s BookingStatus) IsActive() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCheckedIn, StatusCheckedOut, StatusCancelled:
		return true
	}
	return false
}

// PaymentStatus is independent of BookingStatus.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
)

// Booking is a reservation of one room type for a half-open date range [CheckIn, CheckOut).
type Booking struct {
	ID               string        `bson:"id" json:"id"`
	Reference        string        `bson:"booking_reference" json:"booking_reference"`
	UserID           string        `bson:"user_id" json:"user_id"`
	RoomID           string        `bson:"room_id" json:"room_id"`
	RoomName         string        `bson:"room_name,omitempty" json:"room_name,omitempty"`
	CheckIn          Date          `bson:"check_in" json:"check_in"`
	CheckOut         Date          `bson:"check_out" json:"check_out"`
	Nights           int           `bson:"nights" json:"nights"`
	Adults           int           `bson:"adults" json:"adults"`
	Children         int           `bson:"children" json:"children"`
	RoomsCount       int           `bson:"rooms_count" json:"rooms_count"`
	NetPrice         Money         `bson:"net_price" json:"net_price"`
	TaxAmount        Money         `bson:"tax_amount" json:"tax_amount"`
	TotalPrice       Money         `bson:"total_price" json:"total_price"`
	SpecialRequests  string        `bson:"special_requests,omitempty" json:"special_requests,omitempty"`
	Status           BookingStatus `bson:"booking_status" json:"booking_status"`
	PaymentStatus    PaymentStatus `bson:"payment_status" json:"payment_status"`
	PaymentMethod    string        `bson:"payment_method,omitempty" json:"payment_method,omitempty"`
	PaymentReference string        `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	CreatedAt        time.Time     `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `bson:"updated_at" json:"updated_at"`
}

// Guests is the party size of the booking.
func (b Booking) Guests() int {
	return b.Adults + b.Children
}

// BookingUpdate lists the fields a status transition may change. Nil fields are left untouched.
type BookingUpdate struct {
	Status           *BookingStatus
	PaymentStatus    *PaymentStatus
	PaymentMethod    *string
	PaymentReference *string
}

// Apply copies the set fields onto b.
func (u BookingUpdate) Apply(b *Booking) {
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.PaymentStatus != nil {
		b.PaymentStatus = *u.PaymentStatus
	}
	if u.PaymentMethod != nil {
		b.PaymentMethod = *u.PaymentMethod
	}
	if u.PaymentReference != nil {
		b.PaymentReference = *u.PaymentReference
	}
}

// BookingRequest is the input for creating a booking.
type BookingRequest struct {
	RoomID          string        `json:"room_id" binding:"required"`
	CheckIn         Date          `json:"check_in"`
	CheckOut        Date          `json:"check_out"`
	Adults          int           `json:"adults" binding:"min=1"`
	Children        int           `json:"children" binding:"min=0"`
	RoomsCount      int           `json:"rooms_count" binding:"min=0"`
	SpecialRequests string        `json:"special_requests" binding:"max=1000"`
	UserID          string        `json:"user_id,omitempty"`
	Status          BookingStatus `json:"booking_status,omitempty"`
}

// Pricing is the cost breakdown for a stay.
type Pricing struct {
	Nights     int   `json:"nights"`
	NetPrice   Money `json:"net_price"`
	TaxAmount  Money `json:"tax_amount"`
	TotalPrice Money `json:"total_price"`
}
