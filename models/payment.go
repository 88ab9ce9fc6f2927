package models

import "time"

// Payment methods.
const (
	PaymentMethodCard = "card"
	PaymentMethodCash = "cash"
)

// PaymentRequest asks the payment handler to settle a booking.
type PaymentRequest struct {
	UserID          string
	BookingID       string
	Reference       string
	Amount          Money
	Currency        string
	Method          string
	PaymentMethodID string
}

// Invoice records the outcome of a payment attempt.
type Invoice struct {
	InvoiceID string        `json:"invoice_id"`
	UserID    string        `json:"user_id"`
	BookingID string        `json:"booking_id"`
	Amount    Money         `json:"amount"`
	Currency  string        `json:"currency"`
	Method    string        `json:"method"`
	Status    PaymentStatus `json:"status"`
	PaymentID string        `json:"payment_id,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}
