package booking

import (
	"testing"

	"hotelbooking/models"
)

func TestTransitionTable(t *testing.T) {
	all := []models.BookingStatus{
		models.StatusPending, models.StatusConfirmed, models.StatusCheckedIn,
		models.StatusCheckedOut, models.StatusCancelled,
	}
	allowed := map[[2]models.BookingStatus]bool{
		{models.StatusPending, models.StatusConfirmed}:    true,
		{models.StatusPending, models.StatusCancelled}:    true,
		{models.StatusConfirmed, models.StatusCheckedIn}:  true,
		{models.StatusConfirmed, models.StatusCancelled}:  true,
		{models.StatusCheckedIn, models.StatusCheckedOut}: true,
	}
	for _, from := range all {
		for _, to := range all {
			err := Transition(from, to)
			if allowed[[2]models.BookingStatus{from, to}] {
				if err != nil {
					t.Errorf("%s -> %s should be allowed, got %v", from, to, err)
				}
			} else if err != ErrInvalidStateTransition {
				t.Errorf("%s -> %s should be rejected, got %v", from, to, err)
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []models.BookingStatus{models.StatusCheckedOut, models.StatusCancelled} {
		if !IsTerminal(s) {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []models.BookingStatus{models.StatusPending, models.StatusConfirmed, models.StatusCheckedIn} {
		if IsTerminal(s) {
			t.Errorf("%s should not be terminal", s)
		}
	}
}
