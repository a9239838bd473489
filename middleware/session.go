package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// SessionIDKey is the gin context key holding the cart session ID.
	SessionIDKey = "session_id"

	sessionCookie = "conserv_session"
	// Cookie lifetime matches the cart TTL.
	sessionMaxAge = 12 * 60 * 60
)

// Session assigns each browser a stable session ID for its billing cart.
// The ID lives in a cookie; a missing or blank cookie gets a fresh UUID.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(sessionCookie, sessionID, sessionMaxAge, "/", "", false, true)
		}
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

// SessionID returns the cart session ID from the context.
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}
