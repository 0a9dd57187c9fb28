package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jengzang/runmap-backend-go/internal/auth"
	"github.com/jengzang/runmap-backend-go/pkg/response"
)

// AthleteIDKey is the gin context key holding the authenticated athlete
const AthleteIDKey = "athlete_id"

// RequireSession rejects requests without a valid session cookie
func RequireSession(sessions *auth.SessionManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(auth.SessionCookie)
		if err != nil || token == "" {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		athleteID, err := sessions.Parse(token)
		if err != nil {
			response.Unauthorized(c, "Not authenticated")
			c.Abort()
			return
		}

		c.Set(AthleteIDKey, athleteID)
		c.Next()
	}
}

// AthleteID returns the athlete set by RequireSession
func AthleteID(c *gin.Context) int64 {
	return c.GetInt64(AthleteIDKey)
}
