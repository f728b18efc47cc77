package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/dropfour/internal/domain"
)

// writeError maps domain errors onto status codes.
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidColumn),
		errors.Is(err, domain.ErrInvalidMode),
		errors.Is(err, domain.ErrInvalidDifficulty):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotYourTurn), errors.Is(err, domain.ErrGameOver):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrGameNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
