package booking

import "errors"

var (
	ErrInvalidDateRange       = errors.New("check-out must be at least one night after check-in")
	ErrRoomUnavailable        = errors.New("room is not available for the selected dates")
	ErrInvalidStateTransition = errors.New("booking status transition not allowed")
	ErrReferenceCollision     = errors.New("booking reference already in use")
	ErrAuthenticationRequired = errors.New("password re-verification required")

	ErrBookingNotFound    = errors.New("booking not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrInvalidGuests      = errors.New("party size exceeds room capacity")
	ErrInvalidRoomsCount  = errors.New("rooms count must be at least 1")
	ErrPaymentCompleted   = errors.New("payment already processed")
	ErrUnsupportedPayment = errors.New("unsupported payment method")
)
