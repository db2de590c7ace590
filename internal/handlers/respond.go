package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "threatlens/pkg/errors"
)

// respondError maps the service error taxonomy onto HTTP statuses:
// invalid input to 400, unknown records to 404, provider and storage
// faults to 500.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrInvalidInput):
		c.JSON(400, gin.H{"success": false, "error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(404, gin.H{"success": false, "error": "not found"})
	case errors.Is(err, apperrors.ErrProviderUnavailable):
		c.JSON(500, gin.H{"success": false, "error": "scan provider unavailable"})
	default:
		c.JSON(500, gin.H{"success": false, "error": "internal error"})
	}
}
