package handlers

import (
	"net/http"

	"hotelbooking/middleware"
	"hotelbooking/models"
	"hotelbooking/services/booking"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves guest booking endpoints. All routes require authentication.
type BookingHandler struct {
	BookingService booking.BookingService
}

// CreateBookingHandler handles POST /api/bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	req.UserID = c.GetString(middleware.CtxUserID)
	req.Status = ""

	b, err := h.BookingService.CreateBooking(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Booking failed", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Booking created", "booking": b})
}

// QuoteHandler handles POST /api/bookings/quote.
func (h *BookingHandler) QuoteHandler(c *gin.Context) {
	var req booking.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.BookingService.Quote(c.Request.Context(), req)
	if err != nil {
		respondError(c, "Pricing failed", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// MyBookingsHandler handles GET /api/bookings/my-bookings.
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	list, err := h.BookingService.ListForUser(c.Request.Context(), c.GetString(middleware.CtxUserID))
	if err != nil {
		respondError(c, "Failed to load bookings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": list, "count": len(list)})
}

// GetBookingHandler handles GET /api/bookings/:ref, where :ref is the booking reference.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	b, err := h.BookingService.GetByReference(c.Request.Context(), actorFrom(c), c.Param("ref"))
	if err != nil {
		respondError(c, "Booking not found", err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// PayHandler handles PATCH /api/bookings/:ref/payment. :ref is the booking id or reference.
func (h *BookingHandler) PayHandler(c *gin.Context) {
	var req booking.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, inv, err := h.BookingService.Pay(c.Request.Context(), actorFrom(c), c.Param("ref"), req)
	if err != nil {
		respondError(c, "Payment failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b, "invoice": inv})
}

type cancelRequest struct {
	Password string `json:"password"`
}

// CancelHandler handles PATCH /api/bookings/:ref/cancel. :ref is the booking id or reference.
// The caller's password is required.
func (h *BookingHandler) CancelHandler(c *gin.Context) {
	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	b, err := h.BookingService.Cancel(c.Request.Context(), actorFrom(c), c.Param("ref"), req.Password)
	if err != nil {
		respondError(c, "Cancellation failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled", "booking": b})
}
