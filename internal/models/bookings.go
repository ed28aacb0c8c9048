package models

import (
	"strings"
	"time"

	"github.com/joshua-takyi/devevent/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EventID   primitive.ObjectID `bson:"eventId" json:"eventId"`
	Email     string             `bson:"email" json:"email" validate:"required,loose_email"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (b *Booking) BeforeCreate() error {
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// Normalize lowercases and trims the email and checks the booking is well formed.
func (b *Booking) Normalize() error {
	b.Email = strings.ToLower(helpers.StringTrim(b.Email))

	if b.EventID.IsZero() {
		return NewValidationError("eventId", "is required")
	}
	if err := Validate.Struct(b); err != nil {
		return validationFailure(err)
	}
	return nil
}

// ParseEventID converts the hex form used on the wire into an ObjectID.
func ParseEventID(id string) (primitive.ObjectID, error) {
	id = strings.Trim(strings.TrimSpace(id), "\"'")
	if id == "" {
		return primitive.NilObjectID, NewValidationError("eventId", "is required")
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, NewValidationError("eventId", "invalid event ID format")
	}
	return oid, nil
}
