package container

import (
	"log/slog"
	"time"

	"github.com/joshua-takyi/devevent/internal/cache"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/middleware"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/notify"
	"github.com/joshua-takyi/devevent/internal/pages"
	"github.com/joshua-takyi/devevent/internal/services"
)

// Options are the settings the container passes on to routes and services.
type Options struct {
	Production   bool
	Development  bool
	CorsOrigins  []string
	UploadFolder string
	CacheTTL     time.Duration
}

// Container holds all application dependencies
type Container struct {
	Logger   *slog.Logger
	Options  Options
	Repo     *models.MongodbRepo
	Cache    middleware.ResponseStore
	Verifier *helpers.TokenVerifier
	Pages    *pages.Client

	EventService   *services.EventService
	BookingService *services.BookingService
}

// NewContainer wires repositories into services. redisCache, verifier and
// pagesClient may be nil, which disables response caching, event editing and
// the page data route.
func NewContainer(
	logger *slog.Logger,
	opts Options,
	repo *models.MongodbRepo,
	uploader services.ImageUploader,
	redisCache *cache.RedisCache,
	notifier notify.Notifier,
	verifier *helpers.TokenVerifier,
	pagesClient *pages.Client,
) *Container {
	var (
		store       middleware.ResponseStore
		invalidator services.CacheInvalidator
	)
	if redisCache != nil {
		store = redisCache
		invalidator = redisCache
	}

	eventService := services.NewEventService(repo, repo, repo, uploader, invalidator, opts.UploadFolder, logger)
	bookingService := services.NewBookingService(repo, repo, notifier, logger)

	return &Container{
		Logger:         logger,
		Options:        opts,
		Repo:           repo,
		Cache:          store,
		Verifier:       verifier,
		Pages:          pagesClient,
		EventService:   eventService,
		BookingService: bookingService,
	}
}
