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
)

func (r *MongoBookingRepo) HasOverlap(ctx context.Context, roomID string, checkIn, checkOut models.Date, excludeID string) (bool, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, overlapFilter(roomID, checkIn, checkOut, excludeID), options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check overlap for room %s: %w", roomID, err)
	}
	return n > 0, nil
}

func (r *MongoBookingRepo) findOne(ctx context.Context, filter bson.M) (*models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, filter).Decode(&b); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch booking: %w", err)
	}
	return &b, nil
}

// GetByID returns nil, nil when no booking has the id.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

// GetByReference returns nil, nil when no booking has the reference.
func (r *MongoBookingRepo) GetByReference(ctx context.Context, reference string) (*models.Booking, error) {
	return r.findOne(ctx, bson.M{"booking_reference": reference})
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, sort bson.D) ([]models.Booking, error) {
	ctx, cancel := repository.WithTimeout(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(sort))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := make([]models.Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

var newestFirstSort = bson.D{{Key: "created_at", Value: -1}, {Key: "booking_reference", Value: -1}}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"user_id": userID}, newestFirstSort)
}

func (r *MongoBookingRepo) ListAll(ctx context.Context) ([]models.Booking, error) {
	return r.find(ctx, bson.M{}, newestFirstSort)
}

func (r *MongoBookingRepo) ListActiveInRange(ctx context.Context, roomID string, from, to models.Date) ([]models.Booking, error) {
	return r.find(ctx, overlapFilter(roomID, from, to, ""), bson.D{{Key: "check_in", Value: 1}})
}

// DeleteRoomIfIdle counts active bookings and deletes the room document in one
// transaction. A concurrent InsertIfAvailable writes the same room document, so
// the two conflict and the loser is retried.
func (r *MongoBookingRepo) DeleteRoomIfIdle(ctx context.Context, roomID string) error {
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
		n, err := r.coll.CountDocuments(sc, bson.M{
			"room_id":        roomID,
			"booking_status": bson.M{"$in": models.ActiveStatuses},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to count bookings for room %s: %w", roomID, err)
		}
		if n > 0 {
			return nil, repository.ErrActiveBookings
		}
		res, err := r.rooms.DeleteOne(sc, bson.M{"id": roomID})
		if err != nil {
			return nil, fmt.Errorf("failed to delete room %s: %w", roomID, err)
		}
		if res.DeletedCount == 0 {
			return nil, repository.ErrNotFound
		}
		return nil, nil
	}, txnOpts)
	if err != nil {
		for _, known := range []error{repository.ErrNotFound, repository.ErrActiveBookings} {
			if errors.Is(err, known) {
				return known
			}
		}
		return fmt.Errorf("room delete transaction failed: %w", err)
	}
	return nil
}
