// Package response writes the JSON bodies shared by every handler.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Body is the shape of every message or error response.
type Body struct {
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

func body(c *gin.Context, msg string, details map[string]string) Body {
	return Body{Message: msg, RequestID: c.GetString("request_id"), Details: details}
}

// Message writes {"message": msg}.
func Message(c *gin.Context, status int, msg string) {
	c.JSON(status, body(c, msg, nil))
}

// Error writes {"message": msg, "details": ...}; status 0 means 400.
func Error(c *gin.Context, status int, msg string, details map[string]string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	c.JSON(status, body(c, msg, details))
}

// Abort is Error for middleware: the rest of the chain is skipped.
func Abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, body(c, msg, nil))
}

// Unauthorized rejects a request at the authorization gate.
func Unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
}

// OK writes data as the whole body with status 200.
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}
