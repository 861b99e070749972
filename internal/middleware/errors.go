package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ErrorHandler is the fallback translator for errors that escape the
// handlers: anything pushed onto the Gin error list is mapped to the error
// taxonomy and the failure envelope. In production the message of a 500 is
// replaced with a generic string.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := err.Error()

		switch {
		case errors.Is(err, gorm.ErrDuplicatedKey):
			status = http.StatusConflict
			message = "Duplicate entry detected"
		case errors.Is(err, gorm.ErrRecordNotFound):
			status = http.StatusNotFound
			message = "Resource not found"
		case errors.Is(err, jwt.ErrTokenExpired),
			errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrSignatureInvalid):
			status = http.StatusUnauthorized
			message = "Invalid token"
		}

		log.WithFields(log.Fields{
			"status": status,
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
			"error":  err.Error(),
		}).Error("Unhandled error")

		if status >= http.StatusInternalServerError && production {
			message = "An unexpected error occurred"
		}

		c.JSON(status, gin.H{
			"success": false,
			"error":   message,
		})
	}
}
