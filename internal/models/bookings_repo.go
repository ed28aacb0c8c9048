package models

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type BookingsRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
}

func missingEvent(id primitive.ObjectID) error {
	return &IntegrityError{Field: "eventId", Value: id.Hex(), Err: ErrEventReference}
}

// CreateBooking stores a booking once its event is confirmed to exist. The
// existence check stands in for a foreign key; nothing is written when it fails.
func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	if err := booking.Normalize(); err != nil {
		return nil, err
	}

	events, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	count, err := events.CountDocuments(ctx, bson.M{"_id": booking.EventID}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to validate event reference: %w", err)
	}
	if count == 0 {
		return nil, missingEvent(booking.EventID)
	}

	if err := booking.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare booking for creation: %w", err)
	}

	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to insert booking into database: %w", err)
	}

	return booking, nil
}

func (mdb *MongodbRepo) CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return 0, fmt.Errorf("error getting collection: %w", err)
	}
	count, err := col.CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, fmt.Errorf("error counting bookings: %w", err)
	}
	return count, nil
}
