package middleware

import (
	"log"
	"net/http"

	"secretsanta/services"

	"github.com/gin-gonic/gin"
)

// ErrorResponse writes {success:false, error, message}. Domain errors keep
// their own status and code; anything else is logged and reported as a 500
// with the fallback message.
func ErrorResponse(c *gin.Context, err error, fallback string) {
	if appErr, ok := services.AsAppError(err); ok {
		if appErr.Status >= http.StatusInternalServerError {
			log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		c.AbortWithStatusJSON(appErr.Status, gin.H{
			"success": false,
			"error":   appErr.Code,
			"message": appErr.Message,
		})
		return
	}

	log.Printf("%s %s: %s: %v", c.Request.Method, c.FullPath(), fallback, err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   "internal_error",
		"message": fallback,
	})
}

// BadRequest reports a body or parameter that could not be parsed.
func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   "invalid_request",
		"message": message,
	})
}
