package models

// Notice kinds carried by BookingNotice.Kind.
const (
	NoticeConfirmation = "confirmation"
	NoticeReminder     = "reminder"
)

// BookingNotice is the payload of a guest email about a booking. It is
// self-contained so a background worker can render it without store access.
type BookingNotice struct {
	Kind       string        `json:"kind"`
	Status     BookingStatus `json:"booking_status,omitempty"`
	BookingID  string        `json:"booking_id"`
	Reference  string        `json:"booking_reference"`
	UserID     string        `json:"user_id"`
	Email      string        `json:"email"`
	GuestName  string        `json:"guest_name"`
	RoomName   string        `json:"room_name"`
	CheckIn    Date          `json:"check_in"`
	CheckOut   Date          `json:"check_out"`
	Nights     int           `json:"nights"`
	TotalPrice Money         `json:"total_price"`
	Currency   string        `json:"currency"`
}

// NoticeFor builds the confirmation notice of b addressed to u.
func NoticeFor(b Booking, u User, currency string) BookingNotice {
	return BookingNotice{
		Kind:       NoticeConfirmation,
		Status:     b.Status,
		BookingID:  b.ID,
		Reference:  b.Reference,
		UserID:     u.ID,
		Email:      u.Email,
		GuestName:  u.FullName(),
		RoomName:   b.RoomName,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Nights:     b.Nights,
		TotalPrice: b.TotalPrice,
		Currency:   currency,
	}
}
