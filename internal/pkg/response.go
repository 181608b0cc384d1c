package pkg

import (
	"github.com/gin-gonic/gin"

	"github.com/simp-lee/shopgraph/internal/domain"
)

// Response is the JSON envelope used by the non-GraphQL endpoints.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// Error aborts with a JSON error response. If err is a *domain.AppError, its
// code is mapped to the appropriate HTTP status; otherwise 500 is returned.
func Error(c *gin.Context, err error) {
	Abort(c, domain.HTTPStatusCode(err), domain.PublicMessage(err))
}

// Abort stops the handler chain with a JSON envelope for the given status.
func Abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{
		Code:    status,
		Message: message,
		Data:    nil,
	})
}
