package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
)

// Health reports that the API is up. Clients call it to decide whether
// they are online.
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"message":   "fintrack API is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// NoRoute answers requests for unknown paths.
func NoRoute(c *gin.Context) {
	respondWithError(c, apperrors.ErrRouteNotFound)
}
