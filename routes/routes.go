package routes

import (
	"time"

	"hotelbooking/handlers"
	"hotelbooking/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func authMiddleware(hb *handlers.HandlerBundle) gin.HandlerFunc {
	return middleware.JWTAuthMiddleware(hb.Tokens, hb.Sessions, hb.Users)
}

// RegisterAuthRoutes registers account endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)

		protected := api.Group("")
		protected.Use(authMiddleware(hb))
		protected.POST("/logout", hb.Auth.LogoutHandler)
		protected.GET("/me", hb.Auth.MeHandler)
	}
}

// RegisterUserRoutes registers self-service account endpoints.
func RegisterUserRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/users")
	{
		api.Use(authMiddleware(hb))
		api.PUT("/profile", hb.Auth.UpdateProfileHandler)
	}
}

// RegisterRoomRoutes registers the public catalog.
func RegisterRoomRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/rooms")
	{
		api.GET("", hb.Rooms.ListRoomsHandler)
		api.POST("/check-availability", hb.Rooms.CheckAvailabilityHandler)
		api.GET("/:slug", hb.Rooms.GetRoomHandler)
		api.GET("/:slug/availability", hb.Rooms.CalendarHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	bookingGroup := r.Group("/api/bookings")
	{
		bookingGroup.Use(authMiddleware(hb))
		bookingGroup.POST("", hb.Bookings.CreateBookingHandler)
		bookingGroup.POST("/quote", hb.Bookings.QuoteHandler)
		bookingGroup.GET("/my-bookings", hb.Bookings.MyBookingsHandler)
		// :ref is a booking reference; payment and cancel also take the booking id.
		bookingGroup.GET("/:ref", hb.Bookings.GetBookingHandler)
		bookingGroup.PATCH("/:ref/payment", hb.Bookings.PayHandler)
		bookingGroup.PATCH("/:ref/cancel", hb.Bookings.CancelHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(authMiddleware(hb), middleware.AdminOnly())
		adminGroup.GET("/stats", hb.Admin.StatsHandler)
		adminGroup.GET("/users", hb.Admin.GetAllUsersHandler)
		adminGroup.POST("/users", hb.Admin.CreateUserHandler)
		adminGroup.GET("/bookings", hb.Admin.GetAllBookingsHandler)
		adminGroup.POST("/bookings", hb.Admin.CreateBookingHandler)
		adminGroup.PATCH("/bookings/:id/confirm", hb.Admin.ConfirmBookingHandler)
		adminGroup.PATCH("/bookings/:id/check-in", hb.Admin.CheckInHandler)
		adminGroup.PATCH("/bookings/:id/check-out", hb.Admin.CheckOutHandler)
		adminGroup.PATCH("/bookings/:id/cancel", hb.Admin.CancelBookingHandler)
		adminGroup.POST("/rooms", hb.Admin.CreateRoomHandler)
		adminGroup.PATCH("/rooms/:id", hb.Admin.UpdateRoomHandler)
		adminGroup.DELETE("/rooms/:id", hb.Admin.DeleteRoomHandler)
	}
}

// RegisterReviewRoutes registers public review reads, submission and admin moderation.
func RegisterReviewRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/reviews")
	{
		api.GET("/room/:room", hb.Reviews.RoomReviewsHandler)
		api.GET("/room/:room/stats", hb.Reviews.RoomStatsHandler)

		guest := api.Group("")
		guest.Use(authMiddleware(hb))
		guest.POST("", hb.Reviews.CreateReviewHandler)

		admin := api.Group("")
		admin.Use(authMiddleware(hb), middleware.AdminOnly())
		admin.GET("/all", hb.Reviews.AllReviewsHandler)
		admin.PUT("/:id", hb.Reviews.UpdateReviewHandler)
		admin.PATCH("/:id/approve", hb.Reviews.ApproveReviewHandler)
		admin.DELETE("/:id", hb.Reviews.DeleteReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/api/health", hb.Health.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	origins := hb.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))

	RegisterHealthRoute(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterRoomRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterReviewRoutes(r, hb)
}
