package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/models"
)

// PageSource fetches the data an event details page renders.
type PageSource interface {
	Event(ctx context.Context, slug string) (*models.Event, error)
	SimilarEvents(ctx context.Context, slug string) ([]*models.Event, error)
}

// EventPage returns an event together with its similar events. A failed
// similar lookup degrades to an empty list so the page still renders.
func EventPage(src PageSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		event, err := src.Event(ctx, c.Param("slug"))
		if err != nil {
			respondError(c, err, "Failed to load event page")
			return
		}

		similar, err := src.SimilarEvents(ctx, event.Slug)
		if err != nil {
			_ = c.Error(err)
			similar = []*models.Event{}
		}

		c.JSON(http.StatusOK, gin.H{
			"event":         event,
			"similarEvents": similar,
		})
	}
}
