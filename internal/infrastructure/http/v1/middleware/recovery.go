// Package middleware provides HTTP middleware components.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"fowlpos/internal/core/apperror"
	appctx "fowlpos/internal/core/context"
	"fowlpos/pkg/logger"
)

// Recovery middleware recovers from panics and returns 500 error.
// A crashed settlement must not take the terminal's connection down with
// an empty response; the stack goes to the log, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				_ = c.Error(
					apperror.NewInternal(fmt.Errorf("panic: %v", err)).
						WithDetail("request_id", appctx.GetRequestID(c.Request.Context())),
				)
				c.Abort()
			}
		}()
		c.Next()
	}
}
