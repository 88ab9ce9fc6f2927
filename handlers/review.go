package handlers

import (
	"net/http"

	"hotelbooking/middleware"
	"hotelbooking/models"
	"hotelbooking/services/review"

	"github.com/gin-gonic/gin"
)

// ReviewHandler serves room reviews and their moderation.
type ReviewHandler struct {
	ReviewService review.ReviewService
}

// RoomReviewsHandler handles GET /api/reviews/room/:room. Only approved reviews are listed.
func (h *ReviewHandler) RoomReviewsHandler(c *gin.Context) {
	list, err := h.ReviewService.ListForRoom(c.Request.Context(), c.Param("room"))
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": list, "count": len(list)})
}

// RoomStatsHandler handles GET /api/reviews/room/:room/stats.
func (h *ReviewHandler) RoomStatsHandler(c *gin.Context) {
	st, err := h.ReviewService.Stats(c.Request.Context(), c.Param("room"))
	if err != nil {
		respondError(c, "Failed to fetch review statistics", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// AllReviewsHandler handles GET /api/reviews/all. status is approved, pending or empty for both.
func (h *ReviewHandler) AllReviewsHandler(c *gin.Context) {
	var q struct {
		Status string `form:"status" binding:"omitempty,oneof=approved pending"`
		RoomID string `form:"room_id"`
	}
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c, err)
		return
	}
	filter := models.ReviewFilter{RoomID: q.RoomID}
	if q.Status != "" {
		approved := q.Status == "approved"
		filter.Approved = &approved
	}
	list, err := h.ReviewService.ListAll(c.Request.Context(), filter)
	if err != nil {
		respondError(c, "Failed to fetch reviews", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": list, "count": len(list)})
}

// CreateReviewHandler handles POST /api/reviews.
func (h *ReviewHandler) CreateReviewHandler(c *gin.Context) {
	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	rv, err := h.ReviewService.Create(c.Request.Context(), c.GetString(middleware.CtxUserID), req)
	if err != nil {
		respondError(c, "Failed to create review", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Review submitted. It will be published after approval.",
		"review":  rv,
	})
}

// UpdateReviewHandler handles PUT /api/reviews/:id.
func (h *ReviewHandler) UpdateReviewHandler(c *gin.Context) {
	var upd models.ReviewUpdate
	if err := c.ShouldBindJSON(&upd); err != nil {
		badRequest(c, err)
		return
	}
	rv, err := h.ReviewService.Update(c.Request.Context(), c.Param("id"), upd)
	if err != nil {
		respondError(c, "Failed to update review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review updated", "review": rv})
}

// ApproveReviewHandler handles PATCH /api/reviews/:id/approve. approved defaults to true.
func (h *ReviewHandler) ApproveReviewHandler(c *gin.Context) {
	var req struct {
		Approved *bool `json:"approved"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	approved := req.Approved == nil || *req.Approved
	rv, err := h.ReviewService.SetApproved(c.Request.Context(), c.Param("id"), approved)
	if err != nil {
		respondError(c, "Failed to update review", err)
		return
	}
	msg := "Review approved"
	if !approved {
		msg = "Review rejected"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "review": rv})
}

// DeleteReviewHandler handles DELETE /api/reviews/:id.
func (h *ReviewHandler) DeleteReviewHandler(c *gin.Context) {
	if err := h.ReviewService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, "Failed to delete review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted"})
}
