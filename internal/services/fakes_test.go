package services

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryStore mirrors the Mongo repo's rules (normalize before write, unique
// slug, event must exist for a booking) without a server.
type memoryStore struct {
	mu        sync.Mutex
	events    []*models.Event
	bookings  []*models.Booking
	views     []*models.EventView
	createErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{}
}

func copyEvent(e *models.Event) *models.Event {
	c := *e
	c.Agenda = append([]string(nil), e.Agenda...)
	c.Tags = append([]string(nil), e.Tags...)
	return &c
}

func (s *memoryStore) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := event.BeforeCreate(); err != nil {
		return nil, err
	}
	if err := event.Normalize(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return nil, s.createErr
	}
	for _, e := range s.events {
		if e.Slug == event.Slug {
			return nil, &models.IntegrityError{Field: "slug", Value: event.Slug, Err: models.ErrDuplicateSlug}
		}
	}
	s.events = append(s.events, copyEvent(event))
	return event, nil
}

func (s *memoryStore) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.Slug == slug {
			return copyEvent(e), nil
		}
	}
	return nil, &models.NotFoundError{Slug: slug}
}

func (s *memoryStore) GetEventByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.events {
		if e.ID == id {
			return copyEvent(e), nil
		}
	}
	return nil, models.ErrEventNotFound
}

func (s *memoryStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Event, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		out = append(out, copyEvent(s.events[i]))
	}
	return out, nil
}

func (s *memoryStore) ListSimilarEvents(ctx context.Context, event *models.Event, limit int) ([]*models.Event, error) {
	all, _ := s.ListEvents(ctx)
	out := make([]*models.Event, 0)
	for _, e := range all {
		if e.ID == event.ID || !sharesTag(e.Tags, event.Tags) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func sharesTag(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
		}
	}
	return false
}

func (s *memoryStore) UpdateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := event.Normalize(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.events {
		if e.ID == event.ID && e.Slug == event.Slug {
			s.events[i] = copyEvent(event)
			return copyEvent(event), nil
		}
	}
	return nil, models.ErrEventNotFound
}

func (s *memoryStore) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := booking.Normalize(); err != nil {
		return nil, err
	}
	if _, err := s.GetEventByID(ctx, booking.EventID); err != nil {
		return nil, &models.IntegrityError{Field: "eventId", Value: booking.EventID.Hex(), Err: models.ErrEventReference}
	}
	if err := booking.BeforeCreate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	b := *booking
	s.bookings = append(s.bookings, &b)
	return booking, nil
}

func (s *memoryStore) CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, b := range s.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (s *memoryStore) TrackEventView(ctx context.Context, view *models.EventView) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, v := range s.views {
		if v.EventID == view.EventID && v.SessionID == view.SessionID {
			return nil
		}
	}
	v := *view
	s.views = append(s.views, &v)
	return nil
}

func (s *memoryStore) GetEventViewStats(ctx context.Context, eventID primitive.ObjectID) (*models.EventStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := &models.EventStats{EventID: eventID.Hex()}
	sessions := map[string]bool{}
	for _, v := range s.views {
		if v.EventID == eventID {
			stats.TotalViews++
			sessions[v.SessionID] = true
		}
	}
	stats.UniqueViews = int64(len(sessions))
	return stats, nil
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, data []byte, folder string) (*helpers.UploadedImage, error) {
	args := m.Called(ctx, data, folder)
	img, _ := args.Get(0).(*helpers.UploadedImage)
	return img, args.Error(1)
}

func (m *mockUploader) Delete(ctx context.Context, publicIDs ...string) error {
	args := m.Called(ctx, publicIDs)
	return args.Error(0)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(ctx context.Context) error {
	c.calls++
	return nil
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) BookingConfirmed(ctx context.Context, booking *models.Booking, event *models.Event) error {
	args := m.Called(ctx, booking, event)
	return args.Error(0)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var pngImage = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), make([]byte, 64)...)

func newEvent(title string) *models.Event {
	return &models.Event{
		Title:       title,
		Description: "The biggest React conference worldwide",
		Overview:    "Two days of talks and workshops",
		Venue:       "RAI Amsterdam",
		Location:    "Amsterdam, Netherlands",
		Date:        "November 15, 2025",
		Time:        "9:00 AM",
		Mode:        "Offline",
		Audience:    "Frontend developers",
		Agenda:      []string{"Keynote", "Workshops", "Closing"},
		Organizer:   "GitNation",
		Tags:        []string{"react", "frontend"},
	}
}
