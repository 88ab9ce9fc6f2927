package booking

import "hotelbooking/models"

var transitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusPending:   {models.StatusConfirmed, models.StatusCancelled},
	models.StatusConfirmed: {models.StatusCheckedIn, models.StatusCancelled},
	models.StatusCheckedIn: {models.StatusCheckedOut},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to models.BookingStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition returns ErrInvalidStateTransition unless from -> to is allowed.
func Transition(from, to models.BookingStatus) error {
	if !CanTransition(from, to) {
		return ErrInvalidStateTransition
	}
	return nil
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status models.BookingStatus) bool {
	return len(transitions[status]) == 0
}
