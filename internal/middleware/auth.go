package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/commutetrackr-go/internal/auth"
	"github.com/jengzang/commutetrackr-go/pkg/response"
)

// BearerAuth rejects requests without a valid bearer token
func BearerAuth(cfg auth.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			response.Unauthorized(c, "Missing bearer token")
			c.Abort()
			return
		}

		subject, err := auth.Parse(token, cfg)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "Invalid bearer token", err)
			c.Abort()
			return
		}

		c.Set("subject", subject)
		c.Next()
	}
}
