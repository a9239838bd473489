package middleware

import (
	"strings"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	// UserIDKey is the gin context key holding the authenticated staff ID.
	UserIDKey = "user_id"
	// UserNameKey is the gin context key holding the staff display name.
	UserNameKey = "user_name"
)

// StaffClaims are the JWT claims issued to staff sessions.
type StaffClaims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// StaffAuth guards the staff endpoints. It accepts a Bearer token signed
// with the configured secret and puts the staff identity on the context.
func StaffAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			_ = c.Error(errors.Unauthorized("missing_token", "Authentication required"))
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		claims := &StaffClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			logger.GetLogger().Warnw("Rejected staff token", "error", err, "path", c.Request.URL.Path)
			_ = c.Error(errors.Unauthorized("invalid_token", "Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.Subject)
		c.Set(UserNameKey, claims.Name)
		c.Next()
	}
}

// StaffID returns the authenticated staff identity from the context.
func StaffID(c *gin.Context) string {
	return c.GetString(UserIDKey)
}
