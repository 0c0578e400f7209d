// Package respond translates application errors into the wire format shared
// by every handler.
package respond

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/n0xlf/hamchallenges/internal/apperr"
)

// Error writes a typed error response. Any non-application error is wrapped
// as an internal error first.
func Error(c *gin.Context, err error) {
	appErr := apperr.From(err)

	body := gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}

	c.JSON(appErr.Status, gin.H{
		"error":     body,
		"timestamp": time.Now().UTC(),
	})
}
