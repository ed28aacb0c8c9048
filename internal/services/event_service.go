package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
)

const (
	uploadTimeout       = 30 * time.Second
	defaultSimilarLimit = 3
	maxSimilarLimit     = 20
)

type ImageUploader interface {
	Upload(ctx context.Context, data []byte, folder string) (*helpers.UploadedImage, error)
	Delete(ctx context.Context, publicIDs ...string) error
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

type EventService struct {
	eventsRepo   models.EventsRepo
	bookingsRepo models.BookingsRepo
	viewsRepo    models.EventViewsRepo
	uploader     ImageUploader
	cache        CacheInvalidator
	folder       string
	logger       *slog.Logger
}

func NewEventService(
	eventsRepo models.EventsRepo,
	bookingsRepo models.BookingsRepo,
	viewsRepo models.EventViewsRepo,
	uploader ImageUploader,
	cache CacheInvalidator,
	folder string,
	logger *slog.Logger,
) *EventService {
	if folder == "" {
		folder = helpers.EventsFolder
	}
	return &EventService{
		eventsRepo:   eventsRepo,
		bookingsRepo: bookingsRepo,
		viewsRepo:    viewsRepo,
		uploader:     uploader,
		cache:        cache,
		folder:       folder,
		logger:       logger,
	}
}

// CreateEvent validates the event and its image, uploads the image and stores
// the event. Every input check runs before the upload, and the upload is
// removed again if the store rejects the event.
func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, image []byte) (*models.Event, error) {
	if event == nil {
		return nil, models.NewValidationError("", "event is required")
	}
	if _, err := helpers.CheckImage(image); err != nil {
		return nil, models.NewValidationError("image", "%s", err.Error())
	}

	if err := event.BeforeCreate(); err != nil {
		return nil, fmt.Errorf("failed to prepare event for creation: %w", err)
	}
	if err := event.Normalize("Image"); err != nil {
		return nil, err
	}

	existing, err := es.eventsRepo.GetEventBySlug(ctx, event.Slug)
	switch {
	case err == nil && existing != nil:
		return nil, &models.IntegrityError{Field: "slug", Value: event.Slug, Err: models.ErrDuplicateSlug}
	case err != nil && !errors.Is(err, models.ErrEventNotFound):
		return nil, err
	}

	uploadCtx, cancel := context.WithTimeout(ctx, uploadTimeout)
	defer cancel()
	uploaded, err := es.uploader.Upload(uploadCtx, image, es.folder)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrUpload, err)
	}
	event.Image = uploaded.URL

	created, err := es.eventsRepo.CreateEvent(ctx, event)
	if err != nil {
		if delErr := es.uploader.Delete(context.WithoutCancel(ctx), uploaded.PublicID); delErr != nil {
			es.logger.Warn("Failed to clean up uploaded image", "public_id", uploaded.PublicID, "error", delErr)
		}
		return nil, err
	}

	es.invalidate(ctx)
	return created, nil
}

func (es *EventService) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	s, err := models.NormalizeSlugParam(slug)
	if err != nil {
		return nil, err
	}
	return es.eventsRepo.GetEventBySlug(ctx, s)
}

func (es *EventService) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return es.eventsRepo.ListEvents(ctx)
}

func (es *EventService) ListSimilarEvents(ctx context.Context, slug string, limit int) ([]*models.Event, error) {
	if limit <= 0 {
		limit = defaultSimilarLimit
	}
	if limit > maxSimilarLimit {
		limit = maxSimilarLimit
	}
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return es.eventsRepo.ListSimilarEvents(ctx, event, limit)
}

// UpdateEvent applies an organizer edit. The slug stays whatever it was at creation.
func (es *EventService) UpdateEvent(ctx context.Context, slug string, patch *models.EventPatch) (*models.Event, error) {
	if patch == nil || patch.IsEmpty() {
		return nil, models.NewValidationError("", "no fields to update")
	}
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := patch.Apply(event); err != nil {
		return nil, err
	}

	updated, err := es.eventsRepo.UpdateEvent(ctx, event)
	if err != nil {
		return nil, err
	}

	es.invalidate(ctx)
	return updated, nil
}

// RecordView is best effort; failures are logged and never surface to the visitor.
func (es *EventService) RecordView(ctx context.Context, event *models.Event, sessionID, ip, userAgent string) {
	if es.viewsRepo == nil || event == nil || sessionID == "" {
		return
	}
	view := &models.EventView{
		EventID:   event.ID,
		SessionID: sessionID,
		IPAddress: ip,
		UserAgent: userAgent,
	}
	if err := es.viewsRepo.TrackEventView(ctx, view); err != nil {
		es.logger.Warn("Failed to track event view", "slug", event.Slug, "error", err)
	}
}

func (es *EventService) GetEventStats(ctx context.Context, slug string) (*models.EventStats, error) {
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	stats := &models.EventStats{EventID: event.ID.Hex()}
	if es.viewsRepo != nil {
		if stats, err = es.viewsRepo.GetEventViewStats(ctx, event.ID); err != nil {
			return nil, err
		}
	}
	stats.Slug = event.Slug

	if stats.Bookings, err = es.bookingsRepo.CountBookingsByEvent(ctx, event.ID); err != nil {
		return nil, err
	}
	return stats, nil
}

func (es *EventService) invalidate(ctx context.Context) {
	if es.cache == nil {
		return
	}
	if err := es.cache.Invalidate(ctx); err != nil {
		es.logger.Warn("Failed to invalidate response cache", "error", err)
	}
}
