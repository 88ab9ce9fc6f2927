package handlers

import (
	"errors"
	"net/http"

	"hotelbooking/services/booking"
	"hotelbooking/services/review"
	"hotelbooking/services/room"
	"hotelbooking/services/user"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
)

// errorStatus maps service errors to HTTP statuses. Unknown errors are 500.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrInvalidDateRange),
		errors.Is(err, booking.ErrInvalidGuests),
		errors.Is(err, booking.ErrInvalidRoomsCount),
		errors.Is(err, booking.ErrUnsupportedPayment),
		errors.Is(err, room.ErrInvalidDateRange),
		errors.Is(err, room.ErrInvalidRoom),
		errors.Is(err, room.ErrEmptyUpdate),
		errors.Is(err, review.ErrInvalidRating),
		errors.Is(err, review.ErrEmptyUpdate),
		errors.Is(err, user.ErrInvalidRole),
		errors.Is(err, user.ErrEmptyProfile),
		errors.Is(err, user.ErrInvalidProfile):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrAuthenticationRequired),
		errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, review.ErrBookingNotOwned):
		return http.StatusForbidden
	case errors.Is(err, booking.ErrBookingNotFound),
		errors.Is(err, booking.ErrRoomNotFound),
		errors.Is(err, room.ErrRoomNotFound),
		errors.Is(err, user.ErrUserNotFound),
		errors.Is(err, review.ErrReviewNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrRoomUnavailable),
		errors.Is(err, booking.ErrInvalidStateTransition),
		errors.Is(err, booking.ErrReferenceCollision),
		errors.Is(err, booking.ErrPaymentCompleted),
		errors.Is(err, room.ErrSlugTaken),
		errors.Is(err, room.ErrRoomHasBookings),
		errors.Is(err, user.ErrEmailTaken),
		errors.Is(err, review.ErrAlreadyReviewed):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes err with its mapped status. Internal errors are not echoed to the client.
func respondError(c *gin.Context, message string, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		utils.GetLogger().Error(message, zapErr(err))
		utils.JSONError(c, status, message, "")
		return
	}
	utils.JSONError(c, status, message, err.Error())
}

func badRequest(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "Invalid request", err.Error())
}
