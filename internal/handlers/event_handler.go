package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

// createEventForm is the multipart payload for a new event. Agenda and tags
// arrive as JSON encoded arrays.
type createEventForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Overview    string `form:"overview"`
	Venue       string `form:"venue"`
	Location    string `form:"location"`
	Date        string `form:"date"`
	Time        string `form:"time"`
	Mode        string `form:"mode"`
	Audience    string `form:"audience"`
	Organizer   string `form:"organizer"`
	Agenda      string `form:"agenda"`
	Tags        string `form:"tags"`
}

func (f *createEventForm) toEvent() (*models.Event, error) {
	agenda, err := decodeList("agenda", f.Agenda)
	if err != nil {
		return nil, err
	}
	tags, err := decodeList("tags", f.Tags)
	if err != nil {
		return nil, err
	}
	return &models.Event{
		Title:       f.Title,
		Description: f.Description,
		Overview:    f.Overview,
		Venue:       f.Venue,
		Location:    f.Location,
		Date:        f.Date,
		Time:        f.Time,
		Mode:        f.Mode,
		Audience:    f.Audience,
		Organizer:   f.Organizer,
		Agenda:      agenda,
		Tags:        tags,
	}, nil
}

func decodeList(field, raw string) ([]string, error) {
	if raw == "" {
		return nil, models.NewValidationError(field, "is required")
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, models.NewValidationError(field, "must be a JSON array of strings")
	}
	return out, nil
}

func readImage(c *gin.Context) ([]byte, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return nil, models.NewValidationError("image", "image file is required")
	}
	if fh.Size > helpers.MaxImageSize {
		return nil, models.NewValidationError("image", "%s", helpers.ErrImageTooLarge.Error())
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, helpers.MaxImageSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read uploaded image: %w", err)
	}
	return data, nil
}

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var form createEventForm
		if err := c.ShouldBind(&form); err != nil {
			badRequest(c, "invalid form data")
			return
		}

		event, err := form.toEvent()
		if err != nil {
			respondError(c, err, "Event creation failed")
			return
		}
		image, err := readImage(c)
		if err != nil {
			respondError(c, err, "Event creation failed")
			return
		}

		created, err := es.CreateEvent(c.Request.Context(), event, image)
		if err != nil {
			respondError(c, err, "Event creation failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Event created successfully",
			"event":   created,
		})
	}
}

func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := es.ListEvents(c.Request.Context())
		if err != nil {
			respondError(c, err, "Event fetching failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Events fetched successfully",
			"events":  events,
		})
	}
}

func GetEventBySlug(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := es.GetEventBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err, "Failed to fetch event")
			return
		}

		session := c.GetHeader("X-Session-ID")
		if session == "" {
			session = c.ClientIP()
		}
		es.RecordView(c.Request.Context(), event, session, c.ClientIP(), c.Request.UserAgent())

		c.JSON(http.StatusOK, gin.H{
			"message": "Event fetched successfully",
			"event":   event,
		})
	}
}

func ListSimilarEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				badRequest(c, "invalid limit parameter")
				return
			}
			limit = n
		}

		events, err := es.ListSimilarEvents(c.Request.Context(), c.Param("slug"), limit)
		if err != nil {
			respondError(c, err, "Failed to fetch similar events")
			return
		}
		c.JSON(http.StatusOK, gin.H{"events": events})
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var patch models.EventPatch
		if err := c.ShouldBindJSON(&patch); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		updated, err := es.UpdateEvent(c.Request.Context(), c.Param("slug"), &patch)
		if err != nil {
			respondError(c, err, "Event update failed")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Event updated successfully",
			"event":   updated,
		})
	}
}

func GetEventStats(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := es.GetEventStats(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err, "Failed to fetch event stats")
			return
		}
		c.JSON(http.StatusOK, gin.H{"stats": stats})
	}
}
