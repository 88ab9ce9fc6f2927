package bookingRepo

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
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
	"go.uber.org/zap"
)

// MongoBookingRepo implements BookingRepository using MongoDB.
type MongoBookingRepo struct {
	client *mongo.Client
	coll   *mongo.Collection
	rooms  *mongo.Collection
}

// NewMongoBookingRepo binds the bookings and rooms collections of db and ensures indexes.
// The rooms collection carries the per-room booking_seq counter used to serialize inserts.
func NewMongoBookingRepo(db *mongo.Database) *MongoBookingRepo {
	repo := &MongoBookingRepo{
		client: db.Client(),
		coll:   db.Collection("bookings"),
		rooms:  db.Collection("rooms"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

func newContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "booking_reference", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "room_id", Value: 1}, {Key: "check_in", Value: 1}, {Key: "check_out", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

// overlapFilter matches active bookings of roomID whose range intersects [checkIn, checkOut).
func overlapFilter(roomID string, checkIn, checkOut models.Date, excludeID string) bson.M {
	filter := bson.M{
		"room_id":        roomID,
		"booking_status": bson.M{"$in": models.ActiveStatuses},
		"check_in":       bson.M{"$lt": checkOut},
		"check_out":      bson.M{"$gt": checkIn},
	}
	if excludeID != "" {
		filter["id"] = bson.M{"$ne": excludeID}
	}
	return filter
}

// InsertIfAvailable runs bump-counter, overlap count and insert in one transaction.
// Two transactions touching the same room both write its counter document, so one of
// them hits a write conflict and is retried by WithTransaction against the committed state.
func (r *MongoBookingRepo) InsertIfAvailable(ctx context.Context, b *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	session, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	defer session.EndSession(ctx)

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		res, err := r.rooms.UpdateOne(sc,
			bson.M{"id": b.RoomID},
			bson.M{"$inc": bson.M{"booking_seq": 1}},
		)
		if err != nil {
			return nil, fmt.Errorf("failed to lock room %s: %w", b.RoomID, err)
		}
		if res.MatchedCount == 0 {
			return nil, repository.ErrNotFound
		}

		n, err := r.coll.CountDocuments(sc, overlapFilter(b.RoomID, b.CheckIn, b.CheckOut, ""))
		if err != nil {
			return nil, fmt.Errorf("failed to count overlapping bookings: %w", err)
		}
		if n > 0 {
			return nil, repository.ErrOverlap
		}

		if _, err := r.coll.InsertOne(sc, b); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, repository.ErrDuplicateReference
			}
			return nil, fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil, nil
	}, txnOpts)
	if err != nil {
		for _, known := range []error{repository.ErrNotFound, repository.ErrOverlap, repository.ErrDuplicateReference} {
			if errors.Is(err, known) {
				return known
			}
		}
		return fmt.Errorf("booking transaction failed: %w", err)
	}
	return nil
}

// UpdateStatus is a compare-and-set on booking_status.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, expected models.BookingStatus, upd models.BookingUpdate) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if upd.Status != nil {
		set["booking_status"] = *upd.Status
	}
	if upd.PaymentStatus != nil {
		set["payment_status"] = *upd.PaymentStatus
	}
	if upd.PaymentMethod != nil {
		set["payment_method"] = *upd.PaymentMethod
	}
	if upd.PaymentReference != nil {
		set["payment_reference"] = *upd.PaymentReference
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"id": id, "booking_status": expected},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err == nil {
		return &updated, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("failed to update booking %s: %w", id, err)
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current == nil {
		return nil, repository.ErrNotFound
	}
	return nil, repository.ErrStaleStatus
}
