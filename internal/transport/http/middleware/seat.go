package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/dropfour/pkg/auth"
	"github.com/iamasit07/dropfour/pkg/httputil"
)

const seatKey = "seat"

// SeatValidator checks a seat token against the game it claims.
type SeatValidator interface {
	Validate(tokenString, gameID string) (*auth.SeatClaims, error)
}

// SeatAuthMiddleware requires a seat token for the game named by the :id
// route parameter and stores the seat on the context.
func SeatAuthMiddleware(tokens SeatValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		gameID := c.Param("id")

		tokenString, err := httputil.GetSeatToken(c.Request, gameID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Seat token required"})
			return
		}

		claims, err := tokens.Validate(tokenString, gameID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid seat token"})
			return
		}

		c.Set(seatKey, claims.Seat)
		c.Next()
	}
}

// SeatFromContext returns the seat stored by SeatAuthMiddleware.
func SeatFromContext(c *gin.Context) (auth.Seat, bool) {
	v, ok := c.Get(seatKey)
	if !ok {
		return "", false
	}
	seat, ok := v.(auth.Seat)
	return seat, ok
}
