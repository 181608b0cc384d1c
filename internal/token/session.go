package token

import (
	"time"

	"github.com/simp-lee/jwt"
)

// SessionAudience is the aud claim carried by login session tokens, so a
// verification token is never accepted as a session.
const SessionAudience = "session"

// NewSessionService returns the revocable token service that backs login
// sessions. Tokens are HS256, bound to issuer and SessionAudience, and may
// live at most ttl. Extra options (a test clock, say) are applied last.
func NewSessionService(secret, issuer string, ttl time.Duration, opts ...jwt.Option) (jwt.Service, error) {
	revocationTTL := jwt.DefaultUserRevocationTTL
	if ttl > revocationTTL {
		revocationTTL = ttl
	}

	base := []jwt.Option{
		jwt.WithIssuer(issuer),
		jwt.WithAudience(SessionAudience),
		jwt.WithMaxTokenLifetime(ttl),
		jwt.WithUserRevocationTTL(revocationTTL),
	}
	return jwt.New(secret, append(base, opts...)...)
}
