package booking

import (
	"slices"

	"hotelbooking/models"
)

func sortDates(dates []models.Date) {
	slices.SortFunc(dates, func(a, b models.Date) int {
		return a.Compare(b.Time)
	})
}

// Actor is the authenticated principal performing an operation.
type Actor struct {
	UserID string
	Role   string
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// canSee reports whether a may read or act on b. Non-owners get not-found, never forbidden.
func (a Actor) canSee(b *models.Booking) bool {
	return b != nil && (a.IsAdmin() || b.UserID == a.UserID)
}

func ptr[T any](v T) *T {
	return &v
}
