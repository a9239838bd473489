package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/conserv-tt/conserv-backend/errors"
	"github.com/conserv-tt/conserv-backend/logger"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the wire shape for every API failure:
// {"ok": false, "error": "..."}. Clients branch on ok alone.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// ErrorHandler converts errors attached to the gin context into the API
// error envelope. Handlers report failures with c.Error(err) and return.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		log := logger.GetLogger()

		if appError, ok := err.(*errors.AppError); ok {
			statusCode := appError.GetHTTPStatus()
			logger.LogHTTPError(c, err, statusCode, fmt.Sprintf("%s error", appError.Type))

			message := appError.Message
			if appError.Detail != "" && (gin.IsDebugging() ||
				appError.Type == errors.ValidationError ||
				appError.Type == errors.NotFoundError) {
				message = fmt.Sprintf("%s: %s", appError.Message, appError.Detail)
			}

			c.JSON(statusCode, ErrorResponse{OK: false, Error: message})
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypeBind {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Request binding error")
			c.JSON(http.StatusBadRequest, ErrorResponse{OK: false, Error: "Invalid request body"})
			return
		}

		if c.Errors.Last().Type == gin.ErrorTypePublic {
			logger.LogHTTPError(c, err, http.StatusBadRequest, "Public error")
			c.JSON(http.StatusBadRequest, ErrorResponse{OK: false, Error: err.Error()})
			return
		}

		log.Errorw("Unexpected server error", "error", err, "stack_trace", string(debug.Stack()))
		logger.LogHTTPError(c, err, http.StatusInternalServerError, "Unexpected server error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{OK: false, Error: "Server error"})
	}
}
