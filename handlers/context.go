package handlers

import (
	"hotelbooking/middleware"
	"hotelbooking/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func actorFrom(c *gin.Context) booking.Actor {
	return booking.Actor{
		UserID: c.GetString(middleware.CtxUserID),
		Role:   c.GetString(middleware.CtxUserRole),
	}
}

func zapErr(err error) zap.Field {
	return zap.Error(err)
}
