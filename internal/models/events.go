package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/joshua-takyi/devevent/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Overview    string             `bson:"overview" json:"overview" validate:"required"`
	Image       string             `bson:"image" json:"image" validate:"required,url"`
	Venue       string             `bson:"venue" json:"venue" validate:"required"`
	Location    string             `bson:"location" json:"location" validate:"required"`
	Date        string             `bson:"date" json:"date" validate:"required"` // YYYY-MM-DD
	Time        string             `bson:"time" json:"time" validate:"required"` // HH:MM, 24h
	Mode        string             `bson:"mode" json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string             `bson:"audience" json:"audience" validate:"required"`
	Agenda      []string           `bson:"agenda" json:"agenda" validate:"required,min=1,dive,required"`
	Organizer   string             `bson:"organizer" json:"organizer" validate:"required"`
	Tags        []string           `bson:"tags" json:"tags" validate:"required,min=1,dive,required"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// BeforeCreate assigns the identifier, timestamps and the slug. The slug is
// derived from the title exactly once and never recomputed afterwards.
func (e *Event) BeforeCreate() error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	e.Slug = helpers.DeriveSlug(e.Title)
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

func (e *Event) Sanitize() {
	e.Title = helpers.StringTrim(e.Title)
	e.Slug = strings.ToLower(helpers.StringTrim(e.Slug))
	e.Description = helpers.StringTrim(e.Description)
	e.Overview = helpers.StringTrim(e.Overview)
	e.Image = helpers.StringTrim(e.Image)
	e.Venue = helpers.StringTrim(e.Venue)
	e.Location = helpers.StringTrim(e.Location)
	e.Date = helpers.StringTrim(e.Date)
	e.Time = helpers.StringTrim(e.Time)
	e.Mode = strings.ToLower(helpers.StringTrim(e.Mode))
	e.Audience = helpers.StringTrim(e.Audience)
	e.Organizer = helpers.StringTrim(e.Organizer)
	e.Agenda = helpers.TrimList(e.Agenda)
	e.Tags = helpers.RemoveDuplicates(helpers.TrimList(e.Tags))
}

// Normalize trims every field, checks presence and formats, and rewrites date
// and time into their canonical forms. Fields named in skip are left out of
// the presence checks, which lets callers validate before the image exists.
// Nothing is modified in storage; a failure leaves only the in-memory value touched.
func (e *Event) Normalize(skip ...string) error {
	e.Sanitize()

	var err error
	if len(skip) > 0 {
		err = Validate.StructExcept(e, skip...)
	} else {
		err = Validate.Struct(e)
	}
	if err != nil {
		return validationFailure(err)
	}

	if e.Slug == "" || !slugPattern.MatchString(e.Slug) {
		return NewValidationError("title", "must contain at least one letter or digit")
	}

	date, err := helpers.NormalizeDate(e.Date)
	if err != nil {
		return NewValidationError("date", "%s", err.Error())
	}
	e.Date = date

	clock, err := helpers.NormalizeTime(e.Time)
	if err != nil {
		return NewValidationError("time", "%s", err.Error())
	}
	e.Time = clock

	return nil
}

// EventPatch carries an organizer edit. Nil fields are left untouched.
type EventPatch struct {
	Title       *string   `json:"title"`
	Slug        *string   `json:"slug"`
	Description *string   `json:"description"`
	Overview    *string   `json:"overview"`
	Image       *string   `json:"image"`
	Venue       *string   `json:"venue"`
	Location    *string   `json:"location"`
	Date        *string   `json:"date"`
	Time        *string   `json:"time"`
	Mode        *string   `json:"mode"`
	Audience    *string   `json:"audience"`
	Agenda      *[]string `json:"agenda"`
	Organizer   *string   `json:"organizer"`
	Tags        *[]string `json:"tags"`
}

// Apply copies the set fields onto e. Retitling an event keeps its slug;
// an attempt to change the slug itself is rejected.
func (p *EventPatch) Apply(e *Event) error {
	if p.Slug != nil && strings.ToLower(strings.TrimSpace(*p.Slug)) != e.Slug {
		return NewValidationError("slug", "cannot be changed after creation")
	}

	setString(&e.Title, p.Title)
	setString(&e.Description, p.Description)
	setString(&e.Overview, p.Overview)
	setString(&e.Image, p.Image)
	setString(&e.Venue, p.Venue)
	setString(&e.Location, p.Location)
	setString(&e.Date, p.Date)
	setString(&e.Time, p.Time)
	setString(&e.Mode, p.Mode)
	setString(&e.Audience, p.Audience)
	setString(&e.Organizer, p.Organizer)
	if p.Agenda != nil {
		e.Agenda = *p.Agenda
	}
	if p.Tags != nil {
		e.Tags = *p.Tags
	}
	return nil
}

func (p *EventPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Overview == nil && p.Image == nil &&
		p.Venue == nil && p.Location == nil && p.Date == nil && p.Time == nil &&
		p.Mode == nil && p.Audience == nil && p.Agenda == nil && p.Organizer == nil && p.Tags == nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
