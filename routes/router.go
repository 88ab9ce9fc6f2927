package routes

import (
	"hotelbooking/handlers"
	"hotelbooking/middleware"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter builds the engine with recovery, access logging and every route group.
func NewRouter(hb *handlers.HandlerBundle, logger *zap.Logger) (*gin.Engine, error) {
	if err := handlers.RegisterValidators(); err != nil {
		return nil, err
	}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	RegisterRoutes(router, hb)
	return router, nil
}
