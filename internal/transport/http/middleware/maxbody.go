package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	resp "cinereview/internal/transport/http/response"
)

// MaxBodyBytes limits request bodies to n bytes; binding a larger body fails with 400.
func MaxBodyBytes(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > n {
			resp.Abort(c, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
