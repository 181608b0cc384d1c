package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/shopgraph/internal/pkg"
)

// Recovery returns a gin middleware that recovers from panics outside the
// GraphQL executor, logs the value with a stack trace and answers with the
// JSON envelope:
//
//	{"code": 500, "message": "internal server error", "data": null}
//
// Resolver panics are caught by graphql-go and reported as field errors.
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.ErrorContext(c.Request.Context(), "panic recovered",
					slog.Any("panic", err),
					slog.String("method", c.Request.Method),
					slog.String("path", c.Request.URL.Path),
					slog.String("stack", string(debug.Stack())),
				)
				pkg.Abort(c, http.StatusInternalServerError, "internal server error")
			}
		}()
		c.Next()
	}
}
