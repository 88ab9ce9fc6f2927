package roomRepo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoRoomRepo implements RoomRepository using MongoDB.
type MongoRoomRepo struct {
	coll *mongo.Collection
}

func NewMongoRoomRepo(db *mongo.Database) *MongoRoomRepo {
	repo := &MongoRoomRepo{coll: db.Collection("rooms")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create room indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoRoomRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "price_per_night", Value: 1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) Create(ctx context.Context, room *models.Room) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	room.CreatedAt, room.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, room); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

func (r *MongoRoomRepo) findOne(ctx context.Context, filter bson.M) (*models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var room models.Room
	if err := r.coll.FindOne(ctx, filter).Decode(&room); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}
	return &room, nil
}

func (r *MongoRoomRepo) GetByID(ctx context.Context, id string) (*models.Room, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoRoomRepo) GetBySlug(ctx context.Context, slug string) (*models.Room, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

// buildFilter translates a RoomFilter into a query document.
func buildFilter(f models.RoomFilter) bson.M {
	filter := bson.M{}
	if f.Category != "" {
		filter["category"] = ciRegex("^" + regexp.QuoteMeta(f.Category) + "$")
	}
	price := bson.M{}
	if f.MinPrice != nil {
		price["$gte"] = *f.MinPrice
	}
	if f.MaxPrice != nil {
		price["$lte"] = *f.MaxPrice
	}
	if len(price) > 0 {
		filter["price_per_night"] = price
	}
	if f.AvailableOnly {
		filter["is_available"] = true
	}
	if f.Search != "" {
		q := ciRegex(regexp.QuoteMeta(f.Search))
		filter["$or"] = bson.A{bson.M{"name": q}, bson.M{"description": q}}
	}
	if len(f.Amenities) > 0 {
		all := bson.A{}
		for _, a := range f.Amenities {
			all = append(all, ciRegex("^"+regexp.QuoteMeta(a)+"$"))
		}
		filter["amenities"] = bson.M{"$all": all}
	}
	return filter
}

func ciRegex(pattern string) primitive.Regex {
	return primitive.Regex{Pattern: pattern, Options: "i"}
}

func sortDoc(key string) bson.D {
	switch key {
	case models.SortPriceDesc:
		return bson.D{{Key: "price_per_night", Value: -1}}
	case models.SortNameAsc:
		return bson.D{{Key: "name", Value: 1}}
	case models.SortNameDesc:
		return bson.D{{Key: "name", Value: -1}}
	default:
		return bson.D{{Key: "price_per_night", Value: 1}}
	}
}

func (r *MongoRoomRepo) List(ctx context.Context, f models.RoomFilter) ([]models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, buildFilter(f), options.Find().SetSort(sortDoc(f.SortBy)))
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer cursor.Close(ctx)

	rooms := make([]models.Room, 0)
	if err := cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode rooms: %w", err)
	}
	return rooms, nil
}

// updateDoc builds the $set document for the fields upd carries.
func updateDoc(upd models.RoomUpdate) bson.M {
	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Slug != nil {
		set["slug"] = *upd.Slug
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.PricePerNight != nil {
		set["price_per_night"] = *upd.PricePerNight
	}
	if upd.MaxGuests != nil {
		set["max_guests"] = *upd.MaxGuests
	}
	if upd.SizeSqm != nil {
		set["size_sqm"] = *upd.SizeSqm
	}
	if upd.BedType != nil {
		set["bed_type"] = *upd.BedType
	}
	if upd.Amenities != nil {
		set["amenities"] = *upd.Amenities
	}
	if upd.Images != nil {
		set["images"] = *upd.Images
	}
	if upd.IsAvailable != nil {
		set["is_available"] = *upd.IsAvailable
	}
	return set
}

func (r *MongoRoomRepo) Update(ctx context.Context, id string, upd models.RoomUpdate) (*models.Room, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var room models.Room
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": updateDoc(upd)},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&room)
	switch {
	case err == nil:
		return &room, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, repository.ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return nil, repository.ErrDuplicateKey
	}
	return nil, fmt.Errorf("failed to update room %s: %w", id, err)
}
