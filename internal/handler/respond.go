package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"nextalk-desk/internal/models"
)

// handleServiceError maps the sentinel errors to HTTP statuses; anything
// unrecognized is a 500 with the error text, matching the original API's
// generic {error} body.
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, models.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
