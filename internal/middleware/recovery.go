package middleware

import (
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/ticket-registration-service/pkg/response"
)

// Recovery turns a panic anywhere below it into a logged 500 with the standard error envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(io.Discard, func(c *gin.Context, recovered any) {
		zerolog.Ctx(c.Request.Context()).Error().
			Str("panic", fmt.Sprint(recovered)).
			Bytes("stack", debug.Stack()).
			Str("path", c.Request.URL.Path).
			Msg("recovered from panic")
		if c.Writer.Written() {
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, response.InternalErrorPayload)
	})
}
