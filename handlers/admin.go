package handlers

import (
	"net/http"

	"hotelbooking/middleware"
	"hotelbooking/models"
	"hotelbooking/services/booking"
	"hotelbooking/services/room"
	"hotelbooking/services/user"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin console. Routes are guarded by middleware.AdminOnly.
type AdminHandler struct {
	BookingService booking.BookingService
	RoomService    room.RoomService
	UserService    user.UserService
}

// GetAllBookingsHandler handles GET /api/admin/bookings.
func (h *AdminHandler) GetAllBookingsHandler(c *gin.Context) {
	list, err := h.BookingService.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to load bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// GetAllUsersHandler handles GET /api/admin/users.
func (h *AdminHandler) GetAllUsersHandler(c *gin.Context) {
	users, err := h.UserService.GetAllUsers(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to load users", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

// CreateUserHandler handles POST /api/admin/users. role is guest or admin, default guest.
func (h *AdminHandler) CreateUserHandler(c *gin.Context) {
	var req models.UserRegistration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	u, err := h.UserService.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create user", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created", "user": u})
}

// StatsHandler handles GET /api/admin/stats.
func (h *AdminHandler) StatsHandler(c *gin.Context) {
	st, err := h.BookingService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, "Failed to compute stats", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// CreateBookingHandler handles POST /api/admin/bookings. The booking is taken for
// user_id and, unless booking_status says pending, starts confirmed with cash payment due.
func (h *AdminHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.UserID == "" {
		req.UserID = c.GetString(middleware.CtxUserID)
	}
	if _, err := h.UserService.GetUserByID(c.Request.Context(), req.UserID); err != nil {
		respondError(c, "Guest not found", err)
		return
	}
	if req.Status == "" {
		req.Status = models.StatusConfirmed
	}
	b, err := h.BookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Booking failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created", "booking": b})
}

func (h *AdminHandler) transition(c *gin.Context, action string, fn func(*gin.Context, string) (*models.Booking, error)) {
	b, err := fn(c, c.Param("id"))
	if err != nil {
		respondError(c, action+" failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": action + " succeeded", "booking": b})
}

// ConfirmBookingHandler handles PATCH /api/admin/bookings/:id/confirm.
func (h *AdminHandler) ConfirmBookingHandler(c *gin.Context) {
	h.transition(c, "Confirmation", func(c *gin.Context, id string) (*models.Booking, error) {
		return h.BookingService.Confirm(c.Request.Context(), id)
	})
}

// CheckInHandler handles PATCH /api/admin/bookings/:id/check-in.
func (h *AdminHandler) CheckInHandler(c *gin.Context) {
	h.transition(c, "Check-in", func(c *gin.Context, id string) (*models.Booking, error) {
		return h.BookingService.CheckIn(c.Request.Context(), id)
	})
}

// CheckOutHandler handles PATCH /api/admin/bookings/:id/check-out.
func (h *AdminHandler) CheckOutHandler(c *gin.Context) {
	h.transition(c, "Check-out", func(c *gin.Context, id string) (*models.Booking, error) {
		return h.BookingService.CheckOut(c.Request.Context(), id)
	})
}

// CancelBookingHandler handles PATCH /api/admin/bookings/:id/cancel with the admin's own password.
func (h *AdminHandler) CancelBookingHandler(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	h.transition(c, "Cancellation", func(c *gin.Context, id string) (*models.Booking, error) {
		return h.BookingService.Cancel(c.Request.Context(), actorFrom(c), id, req.Password)
	})
}

// CreateRoomHandler handles POST /api/admin/rooms.
func (h *AdminHandler) CreateRoomHandler(c *gin.Context) {
	var req models.Room
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.RoomService.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Failed to create room", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// UpdateRoomHandler handles PATCH /api/admin/rooms/:id.
func (h *AdminHandler) UpdateRoomHandler(c *gin.Context) {
	var upd models.RoomUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	r, err := h.RoomService.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, "Failed to update room", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// DeleteRoomHandler handles DELETE /api/admin/rooms/:id.
func (h *AdminHandler) DeleteRoomHandler(c *gin.Context) {
	if err := h.RoomService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete room", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Room deleted"})
}
