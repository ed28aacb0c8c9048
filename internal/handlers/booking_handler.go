package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/services"
)

type bookingRequest struct {
	EventID string `json:"eventId"`
	Email   string `json:"email"`
}

func CreateBooking(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request payload")
			return
		}

		booking, err := bs.CreateBooking(c.Request.Context(), req.EventID, req.Email)
		if err != nil {
			respondError(c, err, "Booking failed")
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"message": "Booking created successfully",
			"booking": booking,
		})
	}
}

func BookingCount(bs *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := bs.CountBookings(c.Request.Context(), c.Param("slug"))
		if err != nil {
			respondError(c, err, "Failed to count bookings")
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}
