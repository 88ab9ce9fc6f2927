package handlers

import (
	"net/http"
	"strings"

	"hotelbooking/models"
	"hotelbooking/services/booking"
	"hotelbooking/services/room"

	"github.com/gin-gonic/gin"
)

// RoomHandler serves the public catalog.
type RoomHandler struct {
	RoomService    room.RoomService
	BookingService booking.BookingService
}

type roomQuery struct {
	Category  string   `form:"category"`
	MinPrice  *float64 `form:"min_price" binding:"omitempty,min=0"`
	MaxPrice  *float64 `form:"max_price" binding:"omitempty,min=0"`
	Available bool     `form:"available"`
	Search    string   `form:"search"`
	Amenities string   `form:"amenities"`
	SortBy    string   `form:"sort" binding:"omitempty,oneof=price_asc price_desc name_asc name_desc"`
	CheckIn   string   `form:"check_in" binding:"omitempty,isodate"`
	CheckOut  string   `form:"check_out" binding:"required_with=CheckIn,isodate"`
}

// ListRoomsHandler handles GET /api/rooms. Prices in the query are in major units.
func (h *RoomHandler) ListRoomsHandler(c *gin.Context) {
	var q roomQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	filter := models.RoomFilter{
		Category:      q.Category,
		AvailableOnly: q.Available,
		Search:        strings.TrimSpace(q.Search),
		SortBy:        q.SortBy,
	}
	if q.MinPrice != nil {
		v := models.MoneyFromFloat(*q.MinPrice)
		filter.MinPrice = &v
	}
	if q.MaxPrice != nil {
		v := models.MoneyFromFloat(*q.MaxPrice)
		filter.MaxPrice = &v
	}
	for _, a := range strings.Split(q.Amenities, ",") {
		if a = strings.TrimSpace(a); a != "" {
			filter.Amenities = append(filter.Amenities, a)
		}
	}

	var stay *room.Stay
	if q.CheckIn != "" {
		stay = &room.Stay{CheckIn: parseOptionalDate(q.CheckIn), CheckOut: parseOptionalDate(q.CheckOut)}
	}

	rooms, err := h.RoomService.List(c.Request.Context(), filter, stay)
	if err != nil {
		respondError(c, "Failed to list rooms", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms, "count": len(rooms)})
}

// GetRoomHandler handles GET /api/rooms/:slug.
func (h *RoomHandler) GetRoomHandler(c *gin.Context) {
	r, err := h.RoomService.Get(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, "Room not found", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// CalendarHandler handles GET /api/rooms/:slug/availability.
func (h *RoomHandler) CalendarHandler(c *gin.Context) {
	var q struct {
		From string `form:"from" binding:"omitempty,isodate"`
		To   string `form:"to" binding:"omitempty,isodate"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	cal, err := h.RoomService.Calendar(c.Request.Context(), c.Param("slug"), parseOptionalDate(q.From), parseOptionalDate(q.To))
	if err != nil {
		respondError(c, "Failed to load availability", err)
		return
	}
	c.JSON(http.StatusOK, cal)
}

// CheckAvailabilityHandler handles POST /api/rooms/check-availability.
func (h *RoomHandler) CheckAvailabilityHandler(c *gin.Context) {
	var req struct {
		RoomID   string      `json:"room_id" binding:"required"`
		CheckIn  models.Date `json:"check_in"`
		CheckOut models.Date `json:"check_out"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ok, err := h.BookingService.IsAvailable(c.Request.Context(), req.RoomID, req.CheckIn, req.CheckOut, "")
	if err != nil {
		respondError(c, "Availability check failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"room_id":   req.RoomID,
		"check_in":  req.CheckIn,
		"check_out": req.CheckOut,
		"available": ok,
	})
}
