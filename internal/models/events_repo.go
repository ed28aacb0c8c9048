package models

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type EventsRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)
	ListSimilarEvents(ctx context.Context, event *Event, limit int) ([]*Event, error)
	UpdateEvent(ctx context.Context, event *Event) (*Event, error)
}

// NormalizeSlugParam lowercases and trims a slug taken from a URL.
func NormalizeSlugParam(slug string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(slug))
	if s == "" {
		return "", NewValidationError("slug", "invalid or missing slug parameter")
	}
	return s, nil
}

func duplicateSlug(slug string) error {
	return &IntegrityError{Field: "slug", Value: slug, Err: ErrDuplicateSlug}
}

// mapInsertError converts a unique index violation into the integrity error callers can match.
func mapInsertError(err error, slug string) error {
	if mongo.IsDuplicateKeyError(err) {
		return duplicateSlug(slug)
	}
	return fmt.Errorf("failed to insert event into database: %w", err)
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if err := event.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare event for creation: %w", err)
	}
	if err := event.Normalize(); err != nil {
		return nil, err
	}

	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	count, err := col.CountDocuments(ctx, bson.M{"slug": event.Slug}, options.Count().SetLimit(1))
	if err != nil {
		return nil, fmt.Errorf("failed to check slug uniqueness: %w", err)
	}
	if count > 0 {
		return nil, duplicateSlug(event.Slug)
	}

	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, mapInsertError(err, event.Slug)
	}

	return event, nil
}

func (mdb *MongodbRepo) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	s, err := NormalizeSlugParam(slug)
	if err != nil {
		return nil, err
	}
	event, err := mdb.findOneEvent(ctx, bson.M{"slug": s})
	if errors.Is(err, ErrEventNotFound) {
		return nil, &NotFoundError{Slug: s}
	}
	return event, err
}

func (mdb *MongodbRepo) GetEventByID(ctx context.Context, id primitive.ObjectID) (*Event, error) {
	if id.IsZero() {
		return nil, NewValidationError("eventId", "is required")
	}
	return mdb.findOneEvent(ctx, bson.M{"_id": id})
}

func (mdb *MongodbRepo) findOneEvent(ctx context.Context, filter bson.M) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	var event Event
	if err := col.FindOne(ctx, filter).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("error finding event: %w", err)
	}
	return &event, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context) ([]*Event, error) {
	return mdb.findEvents(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

// ListSimilarEvents returns other events sharing at least one tag with event, newest first.
func (mdb *MongodbRepo) ListSimilarEvents(ctx context.Context, event *Event, limit int) ([]*Event, error) {
	if event == nil || len(event.Tags) == 0 {
		return []*Event{}, nil
	}
	filter := bson.M{
		"_id":  bson.M{"$ne": event.ID},
		"tags": bson.M{"$in": event.Tags},
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return mdb.findEvents(ctx, filter, opts)
}

func (mdb *MongodbRepo) findEvents(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding events: %w", err)
	}
	defer cursor.Close(ctx)

	events := make([]*Event, 0)
	for cursor.Next(ctx) {
		var event Event
		if err := cursor.Decode(&event); err != nil {
			return nil, fmt.Errorf("error decoding event: %w", err)
		}
		events = append(events, &event)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}

	return events, nil
}

// UpdateEvent re-validates the event and writes every mutable field. The slug
// and creation time are never part of the update.
func (mdb *MongodbRepo) UpdateEvent(ctx context.Context, event *Event) (*Event, error) {
	if event.ID.IsZero() {
		return nil, NewValidationError("_id", "is required")
	}
	if err := event.Normalize(); err != nil {
		return nil, err
	}

	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	update := bson.M{
		"$set": bson.M{
			"title":       event.Title,
			"description": event.Description,
			"overview":    event.Overview,
			"image":       event.Image,
			"venue":       event.Venue,
			"location":    event.Location,
			"date":        event.Date,
			"time":        event.Time,
			"mode":        event.Mode,
			"audience":    event.Audience,
			"agenda":      event.Agenda,
			"organizer":   event.Organizer,
			"tags":        event.Tags,
			"updatedAt":   time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated Event
	err = col.FindOneAndUpdate(ctx, bson.M{"_id": event.ID, "slug": event.Slug}, update, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, &NotFoundError{Slug: event.Slug}
		}
		return nil, fmt.Errorf("error updating event: %w", err)
	}
	return &updated, nil
}
