package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	viewDedupWindow = time.Hour
	viewRetention   = 30 * 24 * time.Hour
)

type EventView struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	SessionID string             `bson:"sessionId" json:"sessionId"`
	IPAddress string             `bson:"ipAddress,omitempty" json:"ipAddress,omitempty"`
	UserAgent string             `bson:"userAgent,omitempty" json:"userAgent,omitempty"`
	ViewedAt  time.Time          `bson:"viewedAt" json:"viewedAt"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"expiresAt"` // TTL index field
}

type EventStats struct {
	EventID     string `json:"eventId"`
	Slug        string `json:"slug"`
	Bookings    int64  `json:"bookings"`
	TotalViews  int64  `json:"totalViews"`
	UniqueViews int64  `json:"uniqueViews"`
	ViewsToday  int64  `json:"viewsToday"`
}

type EventViewsRepo interface {
	TrackEventView(ctx context.Context, view *EventView) error
	GetEventViewStats(ctx context.Context, eventID primitive.ObjectID) (*EventStats, error)
}

func collectionIndexes() map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		EventsColName: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("slug_unique"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_at_idx"),
			},
			{
				Keys:    bson.D{{Key: "tags", Value: 1}},
				Options: options.Index().SetName("tags_idx"),
			},
		},
		BookingsColName: {
			{
				Keys:    bson.D{{Key: "eventId", Value: 1}},
				Options: options.Index().SetName("event_id_idx"),
			},
			{
				Keys: bson.D{
					{Key: "eventId", Value: 1},
					{Key: "email", Value: 1},
				},
				Options: options.Index().SetName("event_email_idx"),
			},
		},
		EventViewsColName: {
			// expire at the time stored in expiresAt
			{
				Keys:    bson.D{{Key: "expiresAt", Value: 1}},
				Options: options.Index().SetExpireAfterSeconds(0).SetName("expires_at_ttl"),
			},
			{
				Keys: bson.D{
					{Key: "eventId", Value: 1},
					{Key: "sessionId", Value: 1},
					{Key: "viewedAt", Value: -1},
				},
				Options: options.Index().SetName("event_session_idx"),
			},
		},
	}
}

// TrackEventView records a view, ignoring repeats from the same session within an hour.
func (mdb *MongodbRepo) TrackEventView(ctx context.Context, view *EventView) error {
	col, err := mdb.GetCollection(ctx, EventViewsColName)
	if err != nil {
		return fmt.Errorf("error getting collection: %w", err)
	}

	now := time.Now().UTC()
	recent, err := col.CountDocuments(ctx, bson.M{
		"eventId":   view.EventID,
		"sessionId": view.SessionID,
		"viewedAt":  bson.M{"$gte": now.Add(-viewDedupWindow)},
	}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("error checking recent views: %w", err)
	}
	if recent > 0 {
		return nil
	}

	view.ViewedAt = now
	view.ExpiresAt = now.Add(viewRetention)
	if view.ID.IsZero() {
		view.ID = primitive.NewObjectID()
	}

	if _, err := col.InsertOne(ctx, view); err != nil {
		return fmt.Errorf("error inserting event view: %w", err)
	}
	return nil
}

func (mdb *MongodbRepo) GetEventViewStats(ctx context.Context, eventID primitive.ObjectID) (*EventStats, error) {
	col, err := mdb.GetCollection(ctx, EventViewsColName)
	if err != nil {
		return nil, fmt.Errorf("error getting collection: %w", err)
	}

	stats := &EventStats{EventID: eventID.Hex()}

	total, err := col.CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return nil, fmt.Errorf("error counting total views: %w", err)
	}
	stats.TotalViews = total

	now := time.Now().UTC()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	today, err := col.CountDocuments(ctx, bson.M{
		"eventId":  eventID,
		"viewedAt": bson.M{"$gte": startOfDay},
	})
	if err != nil {
		return nil, fmt.Errorf("error counting today's views: %w", err)
	}
	stats.ViewsToday = today

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"eventId": eventID}}},
		{{Key: "$group", Value: bson.M{"_id": "$sessionId"}}},
		{{Key: "$count", Value: "unique_sessions"}},
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("error aggregating unique views: %w", err)
	}
	defer cursor.Close(ctx)

	var result []struct {
		UniqueSessions int64 `bson:"unique_sessions"`
	}
	if err := cursor.All(ctx, &result); err != nil {
		return nil, fmt.Errorf("error decoding unique views: %w", err)
	}
	if len(result) > 0 {
		stats.UniqueViews = result[0].UniqueSessions
	}

	return stats, nil
}
