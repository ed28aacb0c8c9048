package models

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	EventsColName     = "events"
	BookingsColName   = "bookings"
	EventViewsColName = "event_views"
)

var Validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("loose_email", func(fl validator.FieldLevel) bool {
		return helpers.ValidateEmail(fl.Field().String())
	})
	return v
}

// validationFailure turns validator output into a single readable ValidationError.
func validationFailure(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describeFieldError(fe))
	}
	return &ValidationError{Message: strings.Join(msgs, "; ")}
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must contain at least one item", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "loose_email":
		return "invalid email format"
	}
	return fmt.Sprintf("%s is invalid", field)
}

// ClientProvider hands out the shared MongoDB client, connecting lazily.
type ClientProvider interface {
	Client(ctx context.Context) (*mongo.Client, error)
}

type MongodbRepo struct {
	provider ClientProvider
	dbName   string
}

func MongodbNewRepo(provider ClientProvider, dbName string) *MongodbRepo {
	return &MongodbRepo{
		provider: provider,
		dbName:   dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.provider == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	client, err := mdb.provider.Client(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates every index the collections rely on. The unique slug
// index is what settles two concurrent creates racing for the same slug.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	for colName, indexes := range collectionIndexes() {
		col, err := mdb.GetCollection(ctx, colName)
		if err != nil {
			return fmt.Errorf("error getting collection: %w", err)
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("error creating indexes on %s: %w", colName, err)
		}
	}
	return nil
}
