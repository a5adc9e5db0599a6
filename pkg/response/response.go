package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response. Success mirrors the shape the
// tracker page and the ride forwarder expect.
type Response struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Success sends a successful response with data
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Success: true, Data: data})
}

// Fields sends a successful response with extra top-level fields
func Fields(c *gin.Context, fields gin.H) {
	body := gin.H{"success": true}
	for k, v := range fields {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error sends an error response and records err on the context for the
// request logger
func Error(c *gin.Context, code int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.JSON(code, Response{Success: false, Error: message})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message, nil)
}

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message, nil)
}

// InternalError sends a 500 internal server error response
func InternalError(c *gin.Context, err error) {
	Error(c, http.StatusInternalServerError, "Internal server error", err)
}
