package database

import (
	"context"
	"database/sql"
	"fmt"

	"hotelbooking/config"
	bookingRepo "hotelbooking/database/repository/booking"
	reviewRepo "hotelbooking/database/repository/review"
	roomRepo "hotelbooking/database/repository/room"
	userRepo "hotelbooking/database/repository/user"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Stores bundles the repositories of one storage backend.
type Stores struct {
	Rooms    roomRepo.RoomRepository
	Bookings bookingRepo.BookingRepository
	Users    userRepo.UserRepository
	Reviews  reviewRepo.ReviewRepository

	// Ping checks the backend; nil for the in-memory driver.
	Ping  func(ctx context.Context) error
	close func(ctx context.Context) error
}

// Close releases the backend connection.
func (s *Stores) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

// NewMemoryStores builds process-local stores, used by tests and DATABASE_DRIVER=memory.
func NewMemoryStores() *Stores {
	rooms := roomRepo.NewMemoryRoomRepo()
	return &Stores{
		Rooms:    rooms,
		Bookings: bookingRepo.NewMemoryBookingRepo(rooms),
		Users:    userRepo.NewMemoryUserRepo(),
		Reviews:  reviewRepo.NewMemoryReviewRepo(),
	}
}

// OpenStores connects to the backend selected by cfg.DatabaseDriver.
func OpenStores(ctx context.Context, cfg *config.Config) (*Stores, error) {
	switch cfg.DatabaseDriver {
	case config.DriverMemory:
		zap.L().Warn("Using in-memory storage; data is lost on restart")
		return NewMemoryStores(), nil

	case config.DriverPostgres:
		db, err := ConnectPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		if err := MigratePostgres(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return postgresStores(db), nil

	case config.DriverMongo:
		client, err := ConnectMongo(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return mongoStores(client, cfg.DatabaseName), nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.DatabaseDriver)
}

func postgresStores(db *sql.DB) *Stores {
	return &Stores{
		Rooms:    roomRepo.NewPostgresRoomRepo(db),
		Bookings: bookingRepo.NewPostgresBookingRepo(db),
		Users:    userRepo.NewPostgresUserRepo(db),
		Reviews:  reviewRepo.NewPostgresReviewRepo(db),
		Ping:     db.PingContext,
		close:    func(context.Context) error { return db.Close() },
	}
}

func mongoStores(client *mongo.Client, name string) *Stores {
	db := client.Database(name)
	return &Stores{
		Rooms:    roomRepo.NewMongoRoomRepo(db),
		Bookings: bookingRepo.NewMongoBookingRepo(db),
		Users:    userRepo.NewMongoUserRepo(db),
		Reviews:  reviewRepo.NewMongoReviewRepo(db),
		Ping:     func(ctx context.Context) error { return client.Ping(ctx, nil) },
		close:    client.Disconnect,
	}
}
