package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/middleware"
	"github.com/joshua-takyi/devevent/internal/models"
)

// statusFor maps a service error onto the HTTP status it is reported with.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrEventNotFound), errors.Is(err, models.ErrEventReference):
		return http.StatusNotFound
	case errors.Is(err, models.ErrDuplicateSlug):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError writes the error response. Client errors carry their message;
// anything else is attached to the context for ErrorHandler to log and the
// caller only sees a generic message.
func respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	res := models.ErrorResponse(err.Error())
	res.RequestID = c.GetString(middleware.RequestIDKey)

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		res.Message = fallback
	}
	c.JSON(status, res)
}

func badRequest(c *gin.Context, message string) {
	res := models.ErrorResponse(message)
	res.RequestID = c.GetString(middleware.RequestIDKey)
	c.JSON(http.StatusBadRequest, res)
}
