package handlers

import (
	"hotelbooking/middleware"
	"hotelbooking/utils"
)

// HandlerBundle groups the endpoint handlers and what the auth middleware needs.
type HandlerBundle struct {
	Tokens   *utils.TokenManager
	Sessions middleware.SessionLookup
	Users    middleware.UserLookup

	AllowedOrigins    []string
	MaxRequestsPerMin int

	Auth     *AuthHandler
	Rooms    *RoomHandler
	Bookings *BookingHandler
	Admin    *AdminHandler
	Reviews  *ReviewHandler
	Health   *HealthHandler
}
