package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/simp-lee/logger"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// Authenticator resolves a bearer token to the calling identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

// Auth returns a gin middleware that reads an optional
// "Authorization: Bearer <token>" header. Requests without the header pass
// through anonymously. A malformed header or a rejected token ends the
// request with the JSON envelope; a valid token stores the identity in the
// request context with domain.WithIdentity.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" {
			c.Next()
			return
		}

		scheme, raw, ok := strings.Cut(header, " ")
		raw = strings.TrimSpace(raw)
		if !ok || !strings.EqualFold(scheme, "Bearer") || raw == "" {
			pkg.Abort(c, http.StatusUnauthorized, "invalid authorization header")
			return
		}

		ctx := c.Request.Context()
		id, err := a.Authenticate(ctx, raw)
		if err != nil {
			pkg.Error(c, err)
			return
		}

		ctx = domain.WithIdentity(ctx, id)
		ctx = logger.WithContextAttrs(ctx, slog.Uint64("user_id", uint64(id.UserID)))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
