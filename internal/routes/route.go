package routes

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/container"
	"github.com/joshua-takyi/devevent/internal/handlers"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	// Other environments keep whatever GIN_MODE selected.
	switch {
	case container.Options.Production:
		gin.SetMode(gin.ReleaseMode)
	case container.Options.Development:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()
	r.MaxMultipartMemory = 2 * helpers.MaxImageSize
	r.Use(cors.New(cors.Config{
		AllowOrigins:     container.Options.CorsOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Session-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Cache"},
		AllowCredentials: true,
	}))

	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	cached := middleware.ResponseCache(container.Cache, container.Options.CacheTTL, container.Logger)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{
				"status":  "OK",
				"service": "devevent-api",
			})
		})

		events := v1.Group("/events")
		events.GET("", cached, handlers.ListEvents(container.EventService))
		events.POST("", handlers.CreateEvent(container.EventService))
		events.GET("/:slug", handlers.GetEventBySlug(container.EventService))
		events.GET("/:slug/similar", cached, handlers.ListSimilarEvents(container.EventService))
		events.GET("/:slug/bookings/count", handlers.BookingCount(container.BookingService))

		v1.POST("/bookings", handlers.CreateBooking(container.BookingService))
	}

	if container.Pages != nil {
		v1.GET("/pages/events/:slug", handlers.EventPage(container.Pages))
	}

	if container.Verifier != nil {
		organizer := v1.Group("/events")
		organizer.Use(middleware.OrganizerAuth(container.Verifier, container.Logger))
		organizer.PATCH("/:slug", handlers.UpdateEvent(container.EventService))
		organizer.GET("/:slug/stats", handlers.GetEventStats(container.EventService))
	}

	return r
}
