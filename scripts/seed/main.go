package main

import (
	"context"
	"errors"
	"time"

	"hotelbooking/config"
	"hotelbooking/database"
	"hotelbooking/models"
	"hotelbooking/services/room"
	"hotelbooking/services/user"
	"hotelbooking/utils"

	"go.uber.org/zap"
)

var catalog = []models.Room{
	{
		Name:          "Standard Room",
		Description:   "Comfortable room with a queen bed and city view.",
		Category:      "standard",
		PricePerNight: 8900,
		MaxGuests:     2,
		SizeSqm:       22,
		BedType:       "queen",
		Amenities:     []string{"wifi", "tv", "air conditioning"},
		IsAvailable:   true,
	},
	{
		Name:          "Deluxe Room",
		Description:   "Spacious room with a king bed, work desk and rain shower.",
		Category:      "deluxe",
		PricePerNight: 14900,
		MaxGuests:     3,
		SizeSqm:       32,
		BedType:       "king",
		Amenities:     []string{"wifi", "tv", "air conditioning", "minibar", "safe"},
		IsAvailable:   true,
	},
	{
		Name:          "Family Suite",
		Description:   "Two connected bedrooms and a lounge for families.",
		Category:      "suite",
		PricePerNight: 24900,
		MaxGuests:     5,
		SizeSqm:       55,
		BedType:       "king + twin",
		Amenities:     []string{"wifi", "tv", "air conditioning", "minibar", "kitchenette"},
		IsAvailable:   true,
	},
	{
		Name:          "Presidential Suite",
		Description:   "Top-floor suite with a private terrace and butler service.",
		Category:      "suite",
		PricePerNight: 59900,
		MaxGuests:     4,
		SizeSqm:       120,
		BedType:       "king",
		Amenities:     []string{"wifi", "tv", "air conditioning", "minibar", "safe", "jacuzzi", "terrace"},
		IsAvailable:   true,
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger, err := utils.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	stores, err := database.OpenStores(ctx, cfg)
	if err != nil {
		logger.Fatal("seed: failed to open storage", zap.Error(err))
	}
	defer stores.Close(context.Background())

	users := &user.DefaultUserService{Repo: stores.Users, Logger: logger}
	admin, err := users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("seed: failed to create admin", zap.Error(err))
	}
	logger.Info("Admin ready", zap.String("email", admin.Email), zap.String("id", admin.ID))

	rooms := &room.DefaultRoomService{Repo: stores.Rooms, Bookings: stores.Bookings, Logger: logger}
	for _, r := range catalog {
		created, err := rooms.Create(ctx, r)
		if errors.Is(err, room.ErrSlugTaken) {
			logger.Info("Room already present", zap.String("name", r.Name))
			continue
		}
		if err != nil {
			logger.Fatal("seed: failed to create room", zap.String("name", r.Name), zap.Error(err))
		}
		logger.Info("Room created", zap.String("slug", created.Slug), zap.String("price", created.PricePerNight.String()))
	}
}
