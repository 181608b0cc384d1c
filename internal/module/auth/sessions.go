package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/simp-lee/jwt"

	"github.com/simp-lee/shopgraph/internal/domain"
	"github.com/simp-lee/shopgraph/internal/pkg"
)

// SessionManager opens, resolves and revokes login sessions. Session tokens
// come from a revocable jwt.Service. When a store is set every session must
// also be live in the store, which makes revocation visible to every
// instance sharing it.
type SessionManager struct {
	tokens jwt.Service
	store  domain.SessionStore // nil means in-process revocation only
}

// NewSessionManager creates a SessionManager. store may be nil.
func NewSessionManager(tokens jwt.Service, store domain.SessionStore) *SessionManager {
	if tokens == nil {
		panic("auth.NewSessionManager: tokens must not be nil")
	}
	return &SessionManager{tokens: tokens, store: store}
}

// Open issues a session token for userID, valid for ttl.
func (m *SessionManager) Open(ctx context.Context, userID uint, ttl time.Duration) (string, *domain.Session, error) {
	raw, err := m.tokens.GenerateToken(pkg.FormatID(userID), nil, ttl)
	if err != nil {
		return "", nil, domain.NewAppError(domain.CodeInternal, "failed to issue session token", err)
	}
	tok, err := m.tokens.ParseToken(raw)
	if err != nil {
		return "", nil, domain.NewAppError(domain.CodeInternal, "failed to issue session token", err)
	}

	sess := &domain.Session{
		ID:        tok.TokenID,
		UserID:    userID,
		CreatedAt: tok.IssuedAt,
		ExpiresAt: tok.ExpiresAt,
	}
	if m.store != nil {
		if err := m.store.Create(ctx, sess); err != nil {
			return "", nil, domain.NewAppError(domain.CodeInternal, "failed to store session", err)
		}
	}
	return raw, sess, nil
}

// Resolve validates a session token and returns the identity it names.
func (m *SessionManager) Resolve(ctx context.Context, raw string) (domain.Identity, error) {
	tok, err := m.tokens.ValidateToken(raw)
	if err != nil {
		return domain.Identity{}, invalidToken(err)
	}
	userID, err := strconv.ParseUint(tok.UserID, 10, 64)
	if err != nil || userID == 0 {
		return domain.Identity{}, invalidToken(err)
	}

	if m.store != nil {
		sess, err := m.store.Get(ctx, tok.TokenID)
		if err != nil {
			if domain.IsNotFound(err) {
				return domain.Identity{}, invalidToken(err)
			}
			return domain.Identity{}, err
		}
		if sess.UserID != uint(userID) {
			return domain.Identity{}, invalidToken(nil)
		}
	}
	return domain.Identity{UserID: uint(userID), SessionID: tok.TokenID, Token: raw}, nil
}

// End revokes the session behind id.
func (m *SessionManager) End(ctx context.Context, id domain.Identity) error {
	if id.Token != "" {
		if err := m.tokens.RevokeToken(id.Token); err != nil {
			return fmt.Errorf("revoke token: %w", err)
		}
	}
	if m.store != nil {
		if err := m.store.Delete(ctx, id.SessionID); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
	}
	return nil
}

// RevokeUser ends every session of userID. Without a store the revocation
// covers all tokens issued up to and including the current second.
func (m *SessionManager) RevokeUser(ctx context.Context, userID uint) error {
	if m.store != nil {
		return m.store.DeleteByUserID(ctx, userID)
	}
	return m.tokens.RevokeAllUserTokens(pkg.FormatID(userID))
}

// Close stops the token service's background cleanup.
func (m *SessionManager) Close() {
	m.tokens.Close()
}
