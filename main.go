package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"hotelbooking/config"
	"hotelbooking/cron"
	"hotelbooking/database"
	"hotelbooking/handlers"
	"hotelbooking/routes"
	"hotelbooking/services/booking"
	"hotelbooking/services/notification"
	"hotelbooking/services/review"
	"hotelbooking/services/room"
	"hotelbooking/services/user"
	"hotelbooking/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("main: failed to load config", zap.Error(err))
	}
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		logger.Fatal("main: failed to open storage", zap.Error(err))
	}

	health := utils.NewHealthMonitor()
	if stores.Ping != nil {
		health.Register(cfg.DatabaseDriver, stores.Ping)
	}

	// Redis-backed pieces are optional.
	var (
		authCache   *redis.Client
		queueClient *asynq.Client
		inspector   *asynq.Inspector
		worker      *cron.Worker
	)
	tokens := utils.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	userService := &user.DefaultUserService{Repo: stores.Users, Tokens: tokens, Logger: logger}
	hb := &handlers.HandlerBundle{
		Tokens:            tokens,
		Users:             stores.Users,
		AllowedOrigins:    cfg.Origins(),
		MaxRequestsPerMin: cfg.MaxRequestsPerMin,
	}

	var sender notification.Sender = notification.LogNotifier{Logger: logger}
	var notifier notification.Notifier = notification.LogNotifier{Logger: logger}
	if cfg.SMTPHost != "" {
		mailer := notification.NewMailNotifier(notification.MailConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.SMTPFrom,
		}, logger)
		sender, notifier = mailer, mailer
	}

	if cfg.RedisAddr != "" {
		authCache, err = utils.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisAuthDB)
		if err != nil {
			logger.Fatal("main: auth cache unavailable", zap.Error(err))
		}
		sessions := utils.NewSessionStore(authCache)
		userService.Sessions = sessions
		hb.Sessions = sessions
		health.Register("redis", func(ctx context.Context) error { return authCache.Ping(ctx).Err() })

		queueOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisQueueDB}
		queueClient = asynq.NewClient(queueOpts)
		inspector = asynq.NewInspector(queueOpts)
		notifier = notification.NewQueueNotifier(queueClient, inspector, logger)
		worker = cron.NewNotificationWorker(queueOpts, sender, stores.Bookings, logger)
		worker.Start()
	}

	var gateway booking.CardGateway = booking.SimulatedGateway{}
	if cfg.StripeKey != "" {
		gateway = booking.NewStripeGateway(cfg.StripeKey)
	} else {
		logger.Warn("STRIPE_KEY not set; card payments are simulated")
	}

	bookingService := &booking.DefaultBookingService{
		Rooms:    stores.Rooms,
		Bookings: stores.Bookings,
		Users:    stores.Users,
		Notifier: notifier,
		Payments: booking.NewPaymentHandler(logger, gateway),
		Refs:     booking.NewReferenceGenerator(),
		Currency: cfg.Currency,
		Logger:   logger,
	}
	roomService := &room.DefaultRoomService{
		Repo:         stores.Rooms,
		Bookings:     stores.Bookings,
		Availability: bookingService,
		Logger:       logger,
	}
	reviewService := &review.DefaultReviewService{
		Repo:     stores.Reviews,
		Rooms:    roomService,
		Bookings: stores.Bookings,
		Users:    stores.Users,
		Logger:   logger,
	}

	hb.Auth = &handlers.AuthHandler{UserService: userService}
	hb.Rooms = &handlers.RoomHandler{RoomService: roomService, BookingService: bookingService}
	hb.Bookings = &handlers.BookingHandler{BookingService: bookingService}
	hb.Admin = &handlers.AdminHandler{BookingService: bookingService, RoomService: roomService, UserService: userService}
	hb.Reviews = &handlers.ReviewHandler{ReviewService: reviewService}
	hb.Health = &handlers.HealthHandler{Monitor: health}

	router, err := routes.NewRouter(hb, logger)
	if err != nil {
		logger.Fatal("main: failed to build router", zap.Error(err))
	}
	health.Start(ctx, time.Minute)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("storage", cfg.DatabaseDriver))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("main: server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}

	bookingService.WaitNotifications()
	if worker != nil {
		worker.Shutdown()
	}
	if inspector != nil {
		_ = inspector.Close()
	}
	if queueClient != nil {
		_ = queueClient.Close()
	}
	if authCache != nil {
		_ = authCache.Close()
	}
	if err := stores.Close(shutdownCtx); err != nil {
		logger.Error("main: failed to close storage", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
