package services

import (
	"context"
	"log/slog"

	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/notify"
)

type BookingService struct {
	bookingsRepo models.BookingsRepo
	eventsRepo   models.EventsRepo
	notifier     notify.Notifier
	logger       *slog.Logger
}

func NewBookingService(bookingsRepo models.BookingsRepo, eventsRepo models.EventsRepo, notifier notify.Notifier, logger *slog.Logger) *BookingService {
	return &BookingService{
		bookingsRepo: bookingsRepo,
		eventsRepo:   eventsRepo,
		notifier:     notifier,
		logger:       logger,
	}
}

// CreateBooking books a spot for email on the event with the given hex id.
// The confirmation mail is sent after the booking is stored and its failure
// does not undo the booking.
func (bs *BookingService) CreateBooking(ctx context.Context, eventID, email string) (*models.Booking, error) {
	oid, err := models.ParseEventID(eventID)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{EventID: oid, Email: email}
	if err := booking.Normalize(); err != nil {
		return nil, err
	}

	created, err := bs.bookingsRepo.CreateBooking(ctx, booking)
	if err != nil {
		return nil, err
	}

	bs.confirm(ctx, created)
	return created, nil
}

func (bs *BookingService) CountBookings(ctx context.Context, slug string) (int64, error) {
	s, err := models.NormalizeSlugParam(slug)
	if err != nil {
		return 0, err
	}
	event, err := bs.eventsRepo.GetEventBySlug(ctx, s)
	if err != nil {
		return 0, err
	}
	return bs.bookingsRepo.CountBookingsByEvent(ctx, event.ID)
}

func (bs *BookingService) confirm(ctx context.Context, booking *models.Booking) {
	if bs.notifier == nil {
		return
	}
	event, err := bs.eventsRepo.GetEventByID(ctx, booking.EventID)
	if err != nil {
		bs.logger.Warn("Could not load event for booking confirmation", "event_id", booking.EventID.Hex(), "error", err)
		return
	}
	if err := bs.notifier.BookingConfirmed(ctx, booking, event); err != nil {
		bs.logger.Warn("Booking confirmation failed", "booking_id", booking.ID.Hex(), "error", err)
	}
}
