package reviewRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotelbooking/database/repository"
	"hotelbooking/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoReviewRepo implements ReviewRepository using MongoDB.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

func NewMongoReviewRepo(db *mongo.Database) *MongoReviewRepo {
	repo := &MongoReviewRepo{coll: db.Collection("reviews")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create review indexes", zap.Error(err))
	}
	return repo
}

// ensureIndexes backs the one-review-per-user-per-room rule with a unique index.
func (r *MongoReviewRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "room_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "is_approved", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) Create(ctx context.Context, review *models.Review) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	review.CreatedAt, review.UpdatedAt = now, now
	if _, err := r.coll.InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (r *MongoReviewRepo) GetByID(ctx context.Context, id string) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var review models.Review
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&review); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) List(ctx context.Context, f models.ReviewFilter) ([]models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	filter := bson.M{}
	if f.RoomID != "" {
		filter["room_id"] = f.RoomID
	}
	if f.Approved != nil {
		filter["is_approved"] = *f.Approved
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "id", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer cursor.Close(ctx)

	reviews := make([]models.Review, 0)
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, fmt.Errorf("failed to decode reviews: %w", err)
	}
	return reviews, nil
}

func (r *MongoReviewRepo) Update(ctx context.Context, id string, upd models.ReviewUpdate) (*models.Review, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Rating != nil {
		set["rating"] = *upd.Rating
	}
	if upd.Comment != nil {
		set["comment"] = *upd.Comment
	}
	if upd.IsApproved != nil {
		set["is_approved"] = *upd.IsApproved
	}

	var review models.Review
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&review)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update review %s: %w", id, err)
	}
	return &review, nil
}

func (r *MongoReviewRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
